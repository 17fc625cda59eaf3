package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Library.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("library: %w", err))
	}
	if err := c.Playback.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("playback: %w", err))
	}
	if err := c.Keys.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("keys: %w", err))
	}
	if err := c.Theme.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("theme: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks LibraryConfig for errors.
func (c *LibraryConfig) Validate() error {
	if len(c.Paths) == 0 {
		return errors.New("at least one library path is required")
	}
	for _, p := range c.Paths {
		if p == "" {
			return errors.New("library paths must not be empty strings")
		}
	}
	return nil
}

// Validate checks PlaybackConfig for errors.
func (c *PlaybackConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 120 {
		return errors.New("volume must be between 0 and 120")
	}
	if c.SeekStep < 1 {
		return errors.New("seek_step must be at least 1 second")
	}
	return nil
}

// Validate checks KeysConfig for errors. Every binding must parse and
// no key may be bound to two actions.
func (c *KeysConfig) Validate() error {
	seen := make(map[string]Action)
	for action, keys := range c.bindings() {
		for _, k := range keys {
			norm := normalizeKey(k)
			if norm == "" {
				return fmt.Errorf("empty binding for %s", action)
			}
			if prev, ok := seen[norm]; ok && prev != action {
				return fmt.Errorf("key %q bound to both %s and %s", k, prev, action)
			}
			seen[norm] = action
		}
	}
	return nil
}

// Validate checks ThemeConfig for errors.
func (c *ThemeConfig) Validate() error {
	switch c.Flavor {
	case "", "latte", "frappe", "macchiato", "mocha":
		// valid
	default:
		return fmt.Errorf("invalid flavor: %s (must be latte, frappe, macchiato, or mocha)", c.Flavor)
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
