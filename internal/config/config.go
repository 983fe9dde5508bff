package config

import (
	"fmt"
	"time"

	"github.com/dshills/bracer/internal/logging"
)

// Config holds all bracer settings.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log"`
	Indent IndentConfig `toml:"indent" yaml:"indent"`
	Files  FilesConfig  `toml:"files" yaml:"files"`
	Watch  WatchConfig  `toml:"watch" yaml:"watch"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
	// Format is console or json.
	Format string `toml:"format" yaml:"format"`
}

// IndentConfig configures how existing indentation is measured.
type IndentConfig struct {
	// TabWidth is the column width of a tab in existing leading whitespace.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`
}

// FilesConfig selects the files processed when a directory is given.
type FilesConfig struct {
	Include []string `toml:"include" yaml:"include"`
	Exclude []string `toml:"exclude" yaml:"exclude"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Debounce coalesces bursts of writes to the same file.
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Indent: IndentConfig{
			TabWidth: 4,
		},
		Files: FilesConfig{
			Include: []string{"**/*.java", "**/*.go", "**/*.c", "**/*.h", "**/*.js"},
			Exclude: []string{"**/.git/**", "**/node_modules/**"},
		},
		Watch: WatchConfig{
			Debounce: Duration(200 * time.Millisecond),
		},
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrValidationFailed, err)
	}
	switch c.Log.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: log.format: unknown format %q", ErrValidationFailed, c.Log.Format)
	}
	if c.Indent.TabWidth <= 0 {
		return fmt.Errorf("%w: indent.tab_width must be positive, got %d", ErrValidationFailed, c.Indent.TabWidth)
	}
	if len(c.Files.Include) == 0 {
		return fmt.Errorf("%w: files.include must not be empty", ErrValidationFailed)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("%w: watch.debounce must be positive, got %s", ErrValidationFailed, c.Watch.Debounce)
	}
	return nil
}
