package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/tessro/strum/internal/errors"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.strumrc, $XDG_CONFIG_HOME/strum/config.toml, ~/.config/strum/config.toml
func Load() (*Config, error) {
	path := findConfigFile()
	if path == "" {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific file path. The file is
// decoded over the defaults, so omitted settings keep them and explicit
// values (including false booleans) win.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if err := rejectUnknownActions(md); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// rejectUnknownActions fails on [keys] entries naming no known action.
// A typo there would otherwise silently leave a key unbound.
func rejectUnknownActions(md toml.MetaData) error {
	for _, k := range md.Undecoded() {
		parts := []string(k)
		if len(parts) == 2 && parts[0] == "keys" {
			return fmt.Errorf("%w: unknown action %q in [keys]", errors.ErrInvalidConfig, parts[1])
		}
	}
	return nil
}

// Path returns the config file strum would load, or the preferred
// location for a new one when none exists yet.
func Path() string {
	if p := findConfigFile(); p != "" {
		return p
	}
	return DefaultPath()
}

// DefaultPath returns the preferred location for a new config file.
func DefaultPath() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "strum", "config.toml")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".strumrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "strum", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Library
	if v := os.Getenv("STRUM_LIBRARY"); v != "" {
		cfg.Library.Paths = []string{v}
	}

	// Playback
	if v := os.Getenv("STRUM_VOLUME"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Playback.Volume = i
		}
	}

	// Theme
	if v := os.Getenv("STRUM_THEME"); v != "" {
		cfg.Theme.Flavor = v
	}

	// Log
	if v := os.Getenv("STRUM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STRUM_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
