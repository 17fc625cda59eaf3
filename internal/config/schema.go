package config

// Config is the root configuration structure.
type Config struct {
	Library  LibraryConfig  `toml:"library"`
	Playback PlaybackConfig `toml:"playback"`
	Keys     KeysConfig     `toml:"keys"`
	Theme    ThemeConfig    `toml:"theme"`
	Log      LogConfig      `toml:"log"`
}

// LibraryConfig holds music library locations and scan settings.
type LibraryConfig struct {
	Paths  []string `toml:"paths"`
	Ignore []string `toml:"ignore"`
	Cache  bool     `toml:"cache"`
}

// PlaybackConfig holds default playback settings.
type PlaybackConfig struct {
	Volume   int  `toml:"volume"`
	SeekStep int  `toml:"seek_step"`
	Gapless  bool `toml:"gapless"`
}

// KeysConfig maps actions to key bindings. Each field lists the keys
// bound to that action; an empty list keeps the default binding.
type KeysConfig struct {
	PlayPause     []string `toml:"play_pause"`
	Stop          []string `toml:"stop"`
	Next          []string `toml:"next"`
	Previous      []string `toml:"previous"`
	PreviousAlbum []string `toml:"previous_album"`
	RandomAlbum   []string `toml:"random_album"`
	VolumeUp      []string `toml:"volume_up"`
	VolumeDown    []string `toml:"volume_down"`
	Mute          []string `toml:"mute"`
	ShowVolume    []string `toml:"show_volume"`
	SeekForward   []string `toml:"seek_forward"`
	SeekBackward  []string `toml:"seek_backward"`
	SeekToSec     []string `toml:"seek_to_sec"`
	SeekToMin     []string `toml:"seek_to_min"`
	Randomize     []string `toml:"randomize"`
	Shuffle       []string `toml:"shuffle"`
	PlaySelection []string `toml:"play_selection"`
	LastTrack     []string `toml:"last_track"`
	Help          []string `toml:"help"`
	Quit          []string `toml:"quit"`
}

// ThemeConfig holds terminal UI color settings.
type ThemeConfig struct {
	Flavor string `toml:"flavor"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
