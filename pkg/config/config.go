package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

// Config is the top-level configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Terminal TerminalConfig `toml:"terminal"`
	Probe    ProbeConfig    `toml:"probe"`
	Preview  PreviewConfig  `toml:"preview"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"` // debug, info, warn, error
}

// TerminalConfig overrides detection results.
type TerminalConfig struct {
	// Brand forces a terminal brand ("auto" or empty = detect).
	Brand string `toml:"brand"`
	// Adapters forces the adapter order (empty = capability table).
	Adapters []string `toml:"adapters"`
}

// ProbeConfig controls the active identification query.
type ProbeConfig struct {
	Enabled bool     `toml:"enabled"`
	Timeout Duration `toml:"timeout"`
}

// PreviewConfig controls image previews.
type PreviewConfig struct {
	MaxCacheSizeMB int  `toml:"max_cache_size_mb"`
	Width          int  `toml:"width"`  // cells
	Height         int  `toml:"height"` // cells
	Sharpen        bool `toml:"sharpen"`
}

// ForcedBrand returns the configured brand, or the zero Brand for "auto".
func (c *Config) ForcedBrand() (terminal.Brand, error) {
	switch strings.ToLower(strings.TrimSpace(c.Terminal.Brand)) {
	case "", "auto":
		return 0, nil
	}
	return terminal.ParseBrand(c.Terminal.Brand)
}

// ForcedAdapters returns the configured adapter order, or nil.
func (c *Config) ForcedAdapters() ([]terminal.Adapter, error) {
	if len(c.Terminal.Adapters) == 0 {
		return nil, nil
	}
	return terminal.ParseAdapters(c.Terminal.Adapters)
}

// SlogLevel converts GeneralConfig.LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.General.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.ForcedBrand(); err != nil {
		return fmt.Errorf("terminal.brand: %w", err)
	}
	if _, err := c.ForcedAdapters(); err != nil {
		return fmt.Errorf("terminal.adapters: %w", err)
	}
	if c.Probe.Timeout.Duration > 5*time.Second {
		return fmt.Errorf("probe.timeout: %s exceeds 5s", c.Probe.Timeout.Duration)
	}
	switch strings.ToLower(c.General.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("general.log_level: unknown level %q", c.General.LogLevel)
	}
	if c.Preview.Width < 0 || c.Preview.Height < 0 {
		return fmt.Errorf("preview: negative size %dx%d", c.Preview.Width, c.Preview.Height)
	}
	return nil
}
