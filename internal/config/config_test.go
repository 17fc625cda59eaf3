package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Playback.Volume != 100 {
		t.Errorf("Volume = %d, want 100", cfg.Playback.Volume)
	}
	if cfg.Playback.SeekStep != 10 {
		t.Errorf("SeekStep = %d, want 10", cfg.Playback.SeekStep)
	}
	if cfg.Theme.Flavor != "mocha" {
		t.Errorf("Flavor = %q, want %q", cfg.Theme.Flavor, "mocha")
	}
	if len(cfg.Keys.PlayPause) == 0 {
		t.Error("PlayPause bindings not filled")
	}
	if len(cfg.Library.Paths) == 0 {
		t.Error("Library.Paths not filled")
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Playback.Volume = 40
	cfg.Keys.Next = []string{"x"}
	cfg.ApplyDefaults()

	if cfg.Playback.Volume != 40 {
		t.Errorf("Volume = %d, want 40", cfg.Playback.Volume)
	}
	if len(cfg.Keys.Next) != 1 || cfg.Keys.Next[0] != "x" {
		t.Errorf("Next = %v, want [x]", cfg.Keys.Next)
	}
	// Unset actions still get defaults
	if len(cfg.Keys.Previous) == 0 {
		t.Error("Previous bindings not filled")
	}
}

func TestValidateVolumeRange(t *testing.T) {
	tests := []struct {
		volume int
		ok     bool
	}{
		{0, true},
		{100, true},
		{120, true},
		{121, false},
		{-1, false},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Playback.Volume = tt.volume
		err := cfg.Validate()
		if tt.ok && err != nil {
			t.Errorf("volume %d: unexpected error: %v", tt.volume, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("volume %d: expected error, got nil", tt.volume)
		}
	}
}

func TestValidateRejectsDuplicateBinding(t *testing.T) {
	cfg := Default()
	cfg.Keys.Stop = []string{"h"} // already bound to play_pause
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected duplicate-binding error, got nil")
	}
	if !strings.Contains(err.Error(), `"h"`) {
		t.Errorf("error %q does not name the duplicate key", err)
	}
}

func TestValidateThemeFlavor(t *testing.T) {
	cfg := Default()
	cfg.Theme.Flavor = "dracula"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown flavor, got nil")
	}
}

func TestKeymapLookup(t *testing.T) {
	km := Default().Keys.Keymap()

	tests := []struct {
		key    string
		action Action
	}{
		{"h", ActionPlayPause},
		{" ", ActionPlayPause}, // "space" normalizes to bubbletea's " "
		{"left", ActionPlayPause},
		{"ctrl+j", ActionStop},
		{"]", ActionVolumeUp},
		{"~", ActionShuffle},
		{"q", ActionQuit},
	}
	for _, tt := range tests {
		got, ok := km.Lookup(tt.key)
		if !ok {
			t.Errorf("Lookup(%q): not bound", tt.key)
			continue
		}
		if got != tt.action {
			t.Errorf("Lookup(%q) = %s, want %s", tt.key, got, tt.action)
		}
	}

	if _, ok := km.Lookup("ctrl+z"); ok {
		t.Error("Lookup(ctrl+z): expected unbound")
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[library]
paths = ["/music"]

[playback]
volume = 80

[keys]
quit = ["ctrl+q"]

[theme]
flavor = "latte"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got := cfg.Library.Paths[0]; got != "/music" {
		t.Errorf("Paths[0] = %q, want %q", got, "/music")
	}
	if cfg.Playback.Volume != 80 {
		t.Errorf("Volume = %d, want 80", cfg.Playback.Volume)
	}
	if cfg.Theme.Flavor != "latte" {
		t.Errorf("Flavor = %q, want %q", cfg.Theme.Flavor, "latte")
	}
	if got, _ := cfg.Keys.Keymap().Lookup("ctrl+q"); got != ActionQuit {
		t.Errorf("ctrl+q = %s, want %s", got, ActionQuit)
	}
	// Defaults still fill untouched sections
	if cfg.Playback.SeekStep != 10 {
		t.Errorf("SeekStep = %d, want 10", cfg.Playback.SeekStep)
	}
}

func TestLoadFromRejectsUnknownAction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[keys]
quitt = ["ctrl+q"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected unknown-action error, got nil")
	}
	if !strings.Contains(err.Error(), "quitt") {
		t.Errorf("error %q does not name the unknown action", err)
	}
}
