package player

// Options is the serializable playback state carried across controller
// rebuilds and sessions. Status codes: 0 playing, 1 paused, anything
// else stopped.
type Options struct {
	Status        uint8 `json:"status"`
	Volume        uint8 `json:"volume"`
	Muted         bool  `json:"muted"`
	ShowingVolume bool  `json:"showing_volume"`
}

// StatusFromCode decodes a persisted status byte.
func StatusFromCode(c uint8) Status {
	switch c {
	case 0:
		return Playing
	case 1:
		return Paused
	default:
		return Stopped
	}
}

// Code encodes a status for persistence.
func (s Status) Code() uint8 {
	switch s {
	case Playing:
		return 0
	case Paused:
		return 1
	default:
		return 2
	}
}

// DefaultOptions is the state of a never-persisted session: the first
// selection starts playing at full volume.
func DefaultOptions() Options {
	return Options{Status: Playing.Code(), Volume: 100}
}

// Options captures the controller's persistable state. ShowingVolume
// belongs to the view layer and is left false here.
func (p *Player) Options() Options {
	return Options{
		Status: p.status.Code(),
		Volume: uint8(p.volume),
		Muted:  p.muted,
	}
}

// ApplyOptions restores persisted state onto a freshly built
// controller: volume and mute first, then the playback status, so the
// track starts (or stays stopped) at the right loudness. Decode
// failures skip forward per the usual non-fatal policy.
func (p *Player) ApplyOptions(o Options) error {
	p.SetVolume(int(o.Volume))
	if o.Muted && !p.muted {
		p.ToggleMute()
	}
	return p.setPlaybackSkipping(StatusFromCode(o.Status))
}
