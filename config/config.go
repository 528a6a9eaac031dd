// Package config loads TOML configuration for the vcmbox stack: device
// node paths, logging, and allocation defaults. It is consumed by the
// example binaries; library users typically pass [mbox.Option] values
// directly.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ardnew/vcmbox/mbox"
	"github.com/ardnew/vcmbox/pkg"
)

// Config holds the mailbox stack's runtime settings.
type Config struct {
	DevicePath string `toml:"device_path"` // Mailbox character device node
	MemPath    string `toml:"mem_path"`    // Physical memory device node
	LogLevel   string `toml:"log_level"`   // debug, info, warn, or error
	LogFormat  string `toml:"log_format"`  // text or json

	// Allocation defaults applied when a caller passes zero values.
	DefaultAlignment uint32 `toml:"default_alignment"`
	DefaultFlags     uint32 `toml:"default_flags"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DevicePath: mbox.DefaultDevicePath,
		MemPath:    mbox.DefaultMemPath,
		LogLevel:   "warn",
		LogFormat:  "text",
	}
}

// Load reads a TOML configuration file, filling unset fields with
// defaults and validating the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values that have a closed set of choices.
func (c Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", pkg.ErrInvalidParameter, c.LogFormat)
	}
	if c.DevicePath == "" {
		return fmt.Errorf("%w: empty device_path", pkg.ErrInvalidParameter)
	}
	if c.MemPath == "" {
		return fmt.Errorf("%w: empty mem_path", pkg.ErrInvalidParameter)
	}
	return nil
}

// Apply installs the logging settings process-wide.
func (c Config) Apply() error {
	level, err := c.level()
	if err != nil {
		return err
	}
	pkg.SetLogLevel(level)
	if c.LogFormat == "json" {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	} else {
		pkg.SetLogFormat(pkg.LogFormatText)
	}
	return nil
}

// MailboxOptions maps the configuration onto transport construction
// options.
func (c Config) MailboxOptions() []mbox.Option {
	return []mbox.Option{
		mbox.WithDevicePath(c.DevicePath),
		mbox.WithMemPath(c.MemPath),
	}
}

func (c Config) level() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: log_level %q", pkg.ErrInvalidParameter, c.LogLevel)
	}
}
