package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/termbrand/config.toml
//  2. ~/.config/termbrand/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg, terminal.OSEnv{})
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg, terminal.OSEnv{})
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg, terminal.OSEnv{})
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Terminal: TerminalConfig{
			Brand: "auto",
		},
		Probe: ProbeConfig{
			Enabled: true,
			Timeout: Duration{terminal.DefaultProbeTimeout},
		},
		Preview: PreviewConfig{
			MaxCacheSizeMB: 32,
			Width:          40,
			Height:         20,
			Sharpen:        true,
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
// Malformed values are ignored and leave the file setting in place.
func applyEnvOverrides(cfg *Config, env terminal.Env) {
	if v, ok := env.Lookup("TERMBRAND_BRAND"); ok && v != "" {
		cfg.Terminal.Brand = v
	}
	if v, ok := env.Lookup("TERMBRAND_ADAPTERS"); ok && v != "" {
		var names []string
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		cfg.Terminal.Adapters = names
	}
	if v, ok := env.Lookup("TERMBRAND_PROBE"); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Probe.Enabled = b
		}
	}
	if v, ok := env.Lookup("TERMBRAND_PROBE_TIMEOUT"); ok && v != "" {
		var d Duration
		if err := d.UnmarshalText([]byte(v)); err == nil {
			cfg.Probe.Timeout = d
		}
	}
	if v, ok := env.Lookup("TERMBRAND_LOG_LEVEL"); ok && v != "" {
		cfg.General.LogLevel = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "termbrand", "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "termbrand", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
