package config

import (
	"os"
	"path/filepath"
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Library: LibraryConfig{
			Paths: []string{defaultMusicDir()},
			Cache: true,
		},
		Playback: PlaybackConfig{
			Volume:   100,
			SeekStep: 10,
			Gapless:  true,
		},
		Keys: DefaultKeys(),
		Theme: ThemeConfig{
			Flavor: "mocha",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultKeys returns the default key bindings.
func DefaultKeys() KeysConfig {
	return KeysConfig{
		PlayPause:     []string{"h", "space", "left"},
		Stop:          []string{"l", "ctrl+j", "enter", "right"},
		Next:          []string{"j", "n", "down"},
		Previous:      []string{"k", "p", "up"},
		PreviousAlbum: []string{"-"},
		RandomAlbum:   []string{"="},
		VolumeUp:      []string{"]"},
		VolumeDown:    []string{"["},
		Mute:          []string{"m"},
		ShowVolume:    []string{"v"},
		SeekForward:   []string{".", "ctrl+l"},
		SeekBackward:  []string{",", "ctrl+h"},
		SeekToSec:     []string{"\""},
		SeekToMin:     []string{"'"},
		Randomize:     []string{"*", "r"},
		Shuffle:       []string{"~", "s"},
		PlaySelection: []string{"g"},
		LastTrack:     []string{"ctrl+g", "e"},
		Help:          []string{"?"},
		Quit:          []string{"q"},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Library
	if len(c.Library.Paths) == 0 {
		c.Library.Paths = d.Library.Paths
	}

	// Playback
	if c.Playback.Volume == 0 {
		c.Playback.Volume = d.Playback.Volume
	}
	if c.Playback.SeekStep == 0 {
		c.Playback.SeekStep = d.Playback.SeekStep
	}

	// Keys: unbound actions keep their defaults
	c.Keys.applyDefaults(d.Keys)

	// Theme
	if c.Theme.Flavor == "" {
		c.Theme.Flavor = d.Theme.Flavor
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

func (k *KeysConfig) applyDefaults(d KeysConfig) {
	fill := func(dst *[]string, def []string) {
		if len(*dst) == 0 {
			*dst = def
		}
	}
	fill(&k.PlayPause, d.PlayPause)
	fill(&k.Stop, d.Stop)
	fill(&k.Next, d.Next)
	fill(&k.Previous, d.Previous)
	fill(&k.PreviousAlbum, d.PreviousAlbum)
	fill(&k.RandomAlbum, d.RandomAlbum)
	fill(&k.VolumeUp, d.VolumeUp)
	fill(&k.VolumeDown, d.VolumeDown)
	fill(&k.Mute, d.Mute)
	fill(&k.ShowVolume, d.ShowVolume)
	fill(&k.SeekForward, d.SeekForward)
	fill(&k.SeekBackward, d.SeekBackward)
	fill(&k.SeekToSec, d.SeekToSec)
	fill(&k.SeekToMin, d.SeekToMin)
	fill(&k.Randomize, d.Randomize)
	fill(&k.Shuffle, d.Shuffle)
	fill(&k.PlaySelection, d.PlaySelection)
	fill(&k.LastTrack, d.LastTrack)
	fill(&k.Help, d.Help)
	fill(&k.Quit, d.Quit)
}

// defaultMusicDir returns the conventional music directory for the
// current user, falling back to the home directory itself.
func defaultMusicDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	music := filepath.Join(home, "Music")
	if _, err := os.Stat(music); err == nil {
		return music
	}
	return home
}
