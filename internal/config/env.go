package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of environment variables read by the loader.
const EnvPrefix = "BRACER_"

// applyEnv overrides settings from environment variables:
//
//	BRACER_LOG_LEVEL         log.level
//	BRACER_LOG_FORMAT        log.format
//	BRACER_INDENT_TAB_WIDTH  indent.tab_width
//	BRACER_FILES_INCLUDE     files.include (comma separated)
//	BRACER_FILES_EXCLUDE     files.exclude (comma separated)
//	BRACER_WATCH_DEBOUNCE    watch.debounce
//
// Empty string values are treated as valid values, not as unset.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if v, ok := lookup(EnvPrefix + "INDENT_TAB_WIDTH"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sINDENT_TAB_WIDTH: %w", EnvPrefix, err)
		}
		cfg.Indent.TabWidth = n
	}
	if v, ok := lookup(EnvPrefix + "FILES_INCLUDE"); ok {
		cfg.Files.Include = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "FILES_EXCLUDE"); ok {
		cfg.Files.Exclude = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "WATCH_DEBOUNCE"); ok {
		if err := cfg.Watch.Debounce.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			return fmt.Errorf("%sWATCH_DEBOUNCE: %w", EnvPrefix, err)
		}
	}
	return nil
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
