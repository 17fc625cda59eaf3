package config

// Action identifies a player command a key can be bound to. Digit keys
// 0-9 are fixed and not rebindable; they always feed the track-number
// buffer.
type Action string

const (
	ActionPlayPause     Action = "play_pause"
	ActionStop          Action = "stop"
	ActionNext          Action = "next"
	ActionPrevious      Action = "previous"
	ActionPreviousAlbum Action = "previous_album"
	ActionRandomAlbum   Action = "random_album"
	ActionVolumeUp      Action = "volume_up"
	ActionVolumeDown    Action = "volume_down"
	ActionMute          Action = "mute"
	ActionShowVolume    Action = "show_volume"
	ActionSeekForward   Action = "seek_forward"
	ActionSeekBackward  Action = "seek_backward"
	ActionSeekToSec     Action = "seek_to_sec"
	ActionSeekToMin     Action = "seek_to_min"
	ActionRandomize     Action = "randomize"
	ActionShuffle       Action = "shuffle"
	ActionPlaySelection Action = "play_selection"
	ActionLastTrack     Action = "last_track"
	ActionHelp          Action = "help"
	ActionQuit          Action = "quit"
)

// Keymap resolves terminal key strings to actions.
type Keymap struct {
	byKey map[string]Action
	byAct map[Action][]string
}

// bindings returns the configured keys per action, in a stable order
// suitable for help rendering.
func (k *KeysConfig) bindings() map[Action][]string {
	return map[Action][]string{
		ActionPlayPause:     k.PlayPause,
		ActionStop:          k.Stop,
		ActionNext:          k.Next,
		ActionPrevious:      k.Previous,
		ActionPreviousAlbum: k.PreviousAlbum,
		ActionRandomAlbum:   k.RandomAlbum,
		ActionVolumeUp:      k.VolumeUp,
		ActionVolumeDown:    k.VolumeDown,
		ActionMute:          k.Mute,
		ActionShowVolume:    k.ShowVolume,
		ActionSeekForward:   k.SeekForward,
		ActionSeekBackward:  k.SeekBackward,
		ActionSeekToSec:     k.SeekToSec,
		ActionSeekToMin:     k.SeekToMin,
		ActionRandomize:     k.Randomize,
		ActionShuffle:       k.Shuffle,
		ActionPlaySelection: k.PlaySelection,
		ActionLastTrack:     k.LastTrack,
		ActionHelp:          k.Help,
		ActionQuit:          k.Quit,
	}
}

// HelpOrder is the order actions are listed in the help view.
var HelpOrder = []Action{
	ActionPlayPause,
	ActionStop,
	ActionNext,
	ActionPrevious,
	ActionPreviousAlbum,
	ActionRandomAlbum,
	ActionSeekForward,
	ActionSeekBackward,
	ActionSeekToMin,
	ActionSeekToSec,
	ActionVolumeUp,
	ActionVolumeDown,
	ActionMute,
	ActionShowVolume,
	ActionRandomize,
	ActionShuffle,
	ActionPlaySelection,
	ActionLastTrack,
	ActionHelp,
	ActionQuit,
}

// Describe returns a short human-readable description of an action.
func Describe(a Action) string {
	switch a {
	case ActionPlayPause:
		return "play / pause"
	case ActionStop:
		return "stop"
	case ActionNext:
		return "next track"
	case ActionPrevious:
		return "previous track"
	case ActionPreviousAlbum:
		return "previous album"
	case ActionRandomAlbum:
		return "random album"
	case ActionVolumeUp:
		return "volume up"
	case ActionVolumeDown:
		return "volume down"
	case ActionMute:
		return "mute / unmute"
	case ActionShowVolume:
		return "show volume"
	case ActionSeekForward:
		return "seek forward"
	case ActionSeekBackward:
		return "seek backward"
	case ActionSeekToSec:
		return "seek to second (digits first)"
	case ActionSeekToMin:
		return "seek to minute (digits first)"
	case ActionRandomize:
		return "randomized playback"
	case ActionShuffle:
		return "shuffled playback"
	case ActionPlaySelection:
		return "play typed track number / first track"
	case ActionLastTrack:
		return "play last track"
	case ActionHelp:
		return "toggle help"
	case ActionQuit:
		return "quit"
	}
	return string(a)
}

// Keymap builds the key→action lookup table from the configured
// bindings. Call Validate first; Keymap silently keeps the first
// binding on conflicts.
func (k *KeysConfig) Keymap() *Keymap {
	km := &Keymap{
		byKey: make(map[string]Action),
		byAct: make(map[Action][]string),
	}
	for action, keys := range k.bindings() {
		for _, key := range keys {
			norm := normalizeKey(key)
			if _, ok := km.byKey[norm]; !ok {
				km.byKey[norm] = action
			}
			km.byAct[action] = append(km.byAct[action], key)
		}
	}
	return km
}

// Lookup resolves a bubbletea key string to its bound action.
func (m *Keymap) Lookup(key string) (Action, bool) {
	a, ok := m.byKey[key]
	return a, ok
}

// Keys returns the configured bindings for an action, for help display.
func (m *Keymap) Keys(a Action) []string {
	return m.byAct[a]
}

// normalizeKey maps config-file key names to the strings bubbletea
// reports. "space" is the only alias; everything else passes through.
func normalizeKey(key string) string {
	if key == "space" {
		return " "
	}
	return key
}
