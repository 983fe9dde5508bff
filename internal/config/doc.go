// Package config loads bracer settings.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A config file in TOML or YAML, chosen by extension
//  3. BRACER_* environment variables
//
// A missing config file is not an error. Unknown keys in a config file
// are reported as a *ParseError.
//
// Example TOML:
//
//	[log]
//	level = "debug"
//	format = "json"
//
//	[indent]
//	tab_width = 8
//
//	[files]
//	include = ["**/*.java"]
//	exclude = ["**/build/**"]
//
//	[watch]
//	debounce = "250ms"
package config
