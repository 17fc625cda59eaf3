// Package player implements the playback controller: a single-threaded
// state machine over an external audio sink, with wall-clock elapsed
// bookkeeping, gapless pre-queuing, seeking, volume and numeric track
// selection. All methods are called from one goroutine; Poll must run
// once per render tick before state is read for display.
package player

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/tessro/strum/internal/playlist"
	"github.com/tessro/strum/internal/track"
)

// Status is the playback state.
type Status int

const (
	Playing Status = iota
	Paused
	Stopped
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Mode selects how the next track is chosen. Randomized jumps across
// album directories and is resolved by the session layer; Shuffled
// draws random tracks within the current playlist. The modes are
// mutually exclusive by construction.
type Mode int

const (
	Sequential Mode = iota
	Randomized
	Shuffled
)

func (m Mode) String() string {
	switch m {
	case Randomized:
		return "randomized"
	case Shuffled:
		return "shuffled"
	default:
		return "sequential"
	}
}

const (
	// MaxVolume is the output ceiling, in percent.
	MaxVolume = 120
	// VolumeStep is the increment used by volume up/down.
	VolumeStep = 10
	// DoubleTapWindow is how long a first press stays armed for the
	// play-first-track double-press gesture.
	DoubleTapWindow = 500 * time.Millisecond

	// endGuard keeps forward seeks from landing within the final
	// half-second of a track; such seeks advance instead.
	endGuard = 500 * time.Millisecond
)

// Player is the playback controller for one playlist and one sink.
// It is discarded, not mutated, when the user commits to a different
// directory; only the session layer's navigation queue survives.
type Player struct {
	Playlist *playlist.Playlist

	sink   Sink
	status Status
	mode   Mode

	volume int
	muted  bool

	// Gapless bookkeeping: queued marks that the sink holds a
	// pre-queued upcoming track, pending is its playlist index.
	gapless bool
	queued  bool
	pending int

	digits    []int
	lastPress time.Time

	lastStarted time.Time
	lastElapsed time.Duration

	seekStep time.Duration
	now      func() time.Time
	rng      *rand.Rand
}

// Params configures a new Player. Zero fields take defaults: volume
// 100, 10-second seek step, gapless on, wall clock, seeded RNG.
type Params struct {
	Playlist *playlist.Playlist
	Sink     Sink
	Volume   int
	Mode     Mode
	SeekStep time.Duration
	Gapless  *bool
	Now      func() time.Time
	Rand     *rand.Rand
}

// New builds a stopped controller over the given playlist and sink.
// Playback starts on the first PlayOrPause or SetPlayback call.
func New(params Params) *Player {
	p := &Player{
		Playlist: params.Playlist,
		sink:     params.Sink,
		status:   Stopped,
		mode:     params.Mode,
		volume:   params.Volume,
		gapless:  true,
		seekStep: params.SeekStep,
		now:      params.Now,
		rng:      params.Rand,
	}
	if p.volume <= 0 || p.volume > MaxVolume {
		p.volume = 100
	}
	if params.Gapless != nil {
		p.gapless = *params.Gapless
	}
	if p.seekStep <= 0 {
		p.seekStep = 10 * time.Second
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	p.sink.SetVolume(p.volume)
	return p
}

// Status returns the playback state.
func (p *Player) Status() Status { return p.status }

// Mode returns the navigation mode.
func (p *Player) Mode() Mode { return p.mode }

// Volume returns the stored volume percentage, unaffected by mute.
func (p *Player) Volume() int { return p.volume }

// IsMuted reports whether output is muted.
func (p *Player) IsMuted() bool { return p.muted }

// NextTrackQueued reports whether an upcoming track is pending: in
// randomized mode, that the session layer owes a rebuild; otherwise,
// that the sink holds a gapless pre-queued track.
func (p *Player) NextTrackQueued() bool { return p.queued }

// Digits returns the pending numeric input buffer.
func (p *Player) Digits() []int { return p.digits }

// Elapsed reports playback position of the current track, derived
// purely from the wall clock: the backend's position is never read,
// so pause/resume/seek sequences lose no time.
func (p *Player) Elapsed() time.Duration {
	if p.status == Playing {
		return p.lastElapsed + p.now().Sub(p.lastStarted)
	}
	return p.lastElapsed
}

// Duration reports the current track's total length, zero if unknown.
func (p *Player) Duration() time.Duration {
	return p.Playlist.Current().Duration
}

// Play starts the current track from the beginning.
func (p *Player) Play() error {
	if err := p.sink.Append(p.Playlist.Current().Path); err != nil {
		return err
	}
	p.sink.Play()
	p.status = Playing
	p.lastStarted = p.now()
	p.lastElapsed = 0
	p.queued = false
	return nil
}

// PlayOrPause cycles Stopped→Playing→Paused→Playing.
func (p *Player) PlayOrPause() error {
	switch p.status {
	case Stopped:
		return p.Play()
	case Playing:
		p.lastElapsed = p.Elapsed()
		p.sink.Pause()
		p.status = Paused
	case Paused:
		p.sink.Play()
		p.lastStarted = p.now()
		p.status = Playing
	}
	return nil
}

// Stop halts playback, clears the sink queue and zeroes all transient
// input state.
func (p *Player) Stop() {
	p.sink.Stop()
	p.status = Stopped
	p.lastElapsed = 0
	p.digits = p.digits[:0]
	p.queued = false
}

// SetPlayback restarts the current track and reapplies the given
// status: a Paused controller stays paused at zero, a Stopped one
// stays stopped. Used when the index moved or a controller was rebuilt
// and the prior status must carry over.
func (p *Player) SetPlayback(status Status) error {
	p.Stop()
	if err := p.Play(); err != nil {
		return err
	}
	switch status {
	case Paused:
		return p.PlayOrPause()
	case Stopped:
		p.Stop()
	}
	return nil
}

// setPlaybackSkipping applies SetPlayback, advancing past tracks whose
// audio cannot be decoded. Mid-playlist decode failures are non-fatal:
// the listener hears a skip, nothing else. Only when every remaining
// track fails does the controller stop and report the last error.
func (p *Player) setPlaybackSkipping(status Status) error {
	var err error
	for range p.Playlist.Tracks {
		if err = p.SetPlayback(status); err == nil {
			return nil
		}
		slog.Warn("skipping undecodable track",
			slog.String("path", p.Playlist.Current().Path),
			slog.Any("error", err))
		if p.Playlist.IsLastTrack() {
			break
		}
		p.Playlist.Index++
	}
	p.Stop()
	return err
}

// Next advances to the following track, keeping the prior status. In
// shuffled mode the next track is a random draw; at the end of the
// playlist in sequential mode it is a no-op.
func (p *Player) Next() error {
	switch p.mode {
	case Shuffled:
		p.Playlist.SetRandomIndex(p.rng)
	default:
		if p.Playlist.IsLastTrack() {
			return nil
		}
		p.Playlist.Index++
	}
	return p.setPlaybackSkipping(p.status)
}

// Previous steps back one track, keeping the prior status. In shuffled
// mode it draws randomly; at the start of the playlist it is a no-op.
func (p *Player) Previous() error {
	switch p.mode {
	case Shuffled:
		p.Playlist.SetRandomIndex(p.rng)
	default:
		if p.Playlist.Index == 0 {
			return nil
		}
		p.Playlist.Index--
	}
	return p.setPlaybackSkipping(p.status)
}

// PlayIndex selects a track by playlist index, keeping the prior
// status. Out-of-range indices are ignored.
func (p *Player) PlayIndex(i int) error {
	if i < 0 || i >= p.Playlist.Len() {
		return nil
	}
	p.Playlist.Index = i
	return p.setPlaybackSkipping(p.status)
}

// PushDigit appends a 0-9 digit to the numeric input buffer.
func (p *Player) PushDigit(d int) {
	if d < 0 || d > 9 {
		return
	}
	p.digits = append(p.digits, d)
}

// ClearDigits empties the numeric input buffer.
func (p *Player) ClearDigits() {
	p.digits = p.digits[:0]
}

func (p *Player) digitValue() int {
	v := 0
	for _, d := range p.digits {
		v = v*10 + d
	}
	return v
}

// PlayKeySelection resolves the play-selection gesture. With digits
// buffered, the digits form a track number which plays on a match and
// is discarded either way. With an empty buffer, a second press within
// the debounce window plays the first track; a single press only arms
// the window.
func (p *Player) PlayKeySelection() error {
	if len(p.digits) > 0 {
		n := p.digitValue()
		p.digits = p.digits[:0]
		if i, ok := p.Playlist.IndexOfNumber(n); ok {
			return p.PlayIndex(i)
		}
		return nil
	}

	now := p.now()
	if !p.lastPress.IsZero() && now.Sub(p.lastPress) <= DoubleTapWindow {
		p.lastPress = time.Time{}
		return p.PlayIndex(0)
	}
	p.lastPress = now
	return nil
}

// PlayLastTrack jumps to the final track of the playlist.
func (p *Player) PlayLastTrack() error {
	return p.PlayIndex(p.Playlist.Len() - 1)
}

// SeekToTime moves playback to an absolute position in the current
// track. A controller that is not playing is forced into Playing
// first. Seeking to or before the start restarts the track; seeking
// into the final half-second advances to the next track instead.
func (p *Player) SeekToTime(target time.Duration) error {
	if p.status != Playing {
		if err := p.forcePlaying(); err != nil {
			return err
		}
	}

	e := p.Elapsed()
	switch {
	case target < e:
		diff := e - target
		if diff >= e {
			p.Stop()
			return p.Play()
		}
		if err := p.sink.TrySeek(e - diff); err != nil {
			return err
		}
		// Keep Elapsed continuous across the seek.
		switch {
		case p.lastElapsed == 0:
			p.lastStarted = p.lastStarted.Add(diff)
		case p.lastElapsed >= diff:
			p.lastElapsed -= diff
		default:
			rem := diff - p.lastElapsed
			p.lastElapsed = 0
			p.lastStarted = p.lastStarted.Add(rem)
		}
	case target > e:
		diff := target - e
		if p.Duration()-e < diff+endGuard {
			return p.Next()
		}
		if err := p.sink.TrySeek(e + diff); err != nil {
			return err
		}
		p.lastStarted = p.lastStarted.Add(-diff)
	}
	return nil
}

func (p *Player) forcePlaying() error {
	if p.status == Paused {
		return p.PlayOrPause()
	}
	return p.Play()
}

// StepForward seeks ahead by the configured step.
func (p *Player) StepForward() error {
	return p.SeekToTime(p.Elapsed() + p.seekStep)
}

// StepBackward seeks back by the configured step.
func (p *Player) StepBackward() error {
	return p.SeekToTime(p.Elapsed() - p.seekStep)
}

// SeekToSec seeks to the buffered digits read as seconds. The buffer
// is consumed; empty digits seek to the start.
func (p *Player) SeekToSec() error {
	n := p.digitValue()
	p.digits = p.digits[:0]
	return p.SeekToTime(time.Duration(n) * time.Second)
}

// SeekToMin seeks to the buffered digits read as minutes, consuming
// the buffer.
func (p *Player) SeekToMin() error {
	n := p.digitValue()
	p.digits = p.digits[:0]
	return p.SeekToTime(time.Duration(n) * time.Minute)
}

// VolumeUp raises volume one step, up to MaxVolume.
func (p *Player) VolumeUp() {
	p.setVolume(p.volume + VolumeStep)
}

// VolumeDown lowers volume one step, down to zero.
func (p *Player) VolumeDown() {
	p.setVolume(p.volume - VolumeStep)
}

// SetVolume stores a volume percentage, clamped to [0, MaxVolume],
// and applies it unless muted.
func (p *Player) SetVolume(v int) {
	p.setVolume(v)
}

func (p *Player) setVolume(v int) {
	p.volume = min(max(v, 0), MaxVolume)
	if !p.muted {
		p.sink.SetVolume(p.volume)
	}
}

// ToggleMute silences the sink without touching the stored volume, so
// unmuting restores it exactly.
func (p *Player) ToggleMute() {
	p.muted = !p.muted
	if p.muted {
		p.sink.SetVolume(0)
	} else {
		p.sink.SetVolume(p.volume)
	}
}

// ToggleMode flips between Sequential and the given mode. The pending
// gapless flag is dropped, and entering a non-sequential mode with a
// pre-queued sink item discards that item: there is exactly one true
// upcoming track once the mode changes.
func (p *Player) ToggleMode(m Mode) {
	p.queued = false
	if p.mode == m {
		p.mode = Sequential
	} else {
		p.mode = m
	}
	if p.mode != Sequential && p.sink.Len() > 1 {
		p.sink.Pop()
	}
}

// nextIndex resolves the upcoming track index for gapless queuing.
func (p *Player) nextIndex() (int, bool) {
	if p.mode == Shuffled {
		return p.Playlist.RandomIndex(p.rng), true
	}
	if p.Playlist.IsLastTrack() {
		return 0, false
	}
	return p.Playlist.Index + 1, true
}

// Poll advances track-completion and gapless state. It is called once
// per render tick, before drawing, and does nothing unless Playing.
//
// In randomized mode an empty sink only raises the queued flag; the
// session layer owns the cross-playlist rebuild. Otherwise, when the
// sink is down to the current item the upcoming track is decoded and
// appended in advance, and when the sink moves into that item the
// index and clock follow without the sink ever stopping.
func (p *Player) Poll() error {
	if p.status != Playing {
		return nil
	}

	if p.mode == Randomized {
		if p.sink.Empty() {
			p.queued = true
		}
		return nil
	}

	switch {
	case p.sink.Len() == 1 && p.queued:
		p.Playlist.Index = p.pending
		p.lastStarted = p.now()
		p.lastElapsed = 0
		p.queued = false
	case p.sink.Len() == 1 && p.gapless:
		next, ok := p.nextIndex()
		if !ok {
			return nil
		}
		if err := p.sink.Append(p.Playlist.Tracks[next].Path); err != nil {
			slog.Warn("pre-queue failed, skipping ahead",
				slog.String("path", p.Playlist.Tracks[next].Path),
				slog.Any("error", err))
			return p.Next()
		}
		p.pending = next
		p.queued = true
	case p.sink.Empty() && !p.queued:
		if _, ok := p.nextIndex(); ok && !p.gapless {
			return p.Next()
		}
		p.Stop()
	}
	return nil
}

// Close releases the sink. The controller is unusable afterwards.
func (p *Player) Close() error {
	return p.sink.Close()
}

// State is a read-only snapshot for rendering.
type State struct {
	Status   Status
	Mode     Mode
	Elapsed  time.Duration
	Duration time.Duration
	Volume   int
	Muted    bool
	Queued   bool
	Index    int
	Tracks   []track.Track
	Digits   []int
}

// State captures the controller for the renderer. The track slice is
// shared, not copied; renderers must not mutate it.
func (p *Player) State() State {
	return State{
		Status:   p.status,
		Mode:     p.mode,
		Elapsed:  p.Elapsed(),
		Duration: p.Duration(),
		Volume:   p.volume,
		Muted:    p.muted,
		Queued:   p.queued,
		Index:    p.Playlist.Index,
		Tracks:   p.Playlist.Tracks,
		Digits:   p.digits,
	}
}
