package session

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/tessro/strum/internal/errors"
	"github.com/tessro/strum/internal/player"
	"github.com/tessro/strum/internal/playlist"
	"github.com/tessro/strum/internal/track"
)

// Rebuild identifies the navigation gesture behind a controller
// rebuild. Album variants land on the first track of the target in
// sequential mode; track variants restore the stored index and
// randomized mode, so continuous random playback survives the rebuild.
type Rebuild int

const (
	FuzzyFinder Rebuild = iota
	PreviousAlbum
	PreviousTrack
	RandomAlbum
	RandomTrack
)

func (r Rebuild) String() string {
	switch r {
	case FuzzyFinder:
		return "fuzzy"
	case PreviousAlbum:
		return "previous album"
	case PreviousTrack:
		return "previous track"
	case RandomAlbum:
		return "random album"
	case RandomTrack:
		return "random track"
	}
	return "unknown"
}

// Params configures a session context.
type Params struct {
	// Paths is the album-directory candidate list random jumps sample
	// from.
	Paths []string
	// Queue restores a persisted navigation history. Nil bootstraps a
	// fresh queue from a random candidate.
	Queue *Queue
	// Options seeds playback state for the first controller build;
	// subsequent builds carry the live controller's state instead.
	Options player.Options
	// NewSink produces one audio sink per controller build.
	NewSink func() player.Sink
	// Probe reads track durations while building playlists.
	Probe    track.Prober
	SeekStep time.Duration
	Gapless  bool
	Rand     *rand.Rand
}

// Context owns the live playback controller and everything needed to
// replace it when navigation crosses a playlist boundary: the history
// queue, the candidate list and the persisted playback options.
type Context struct {
	Queue  *Queue
	Player *player.Player

	paths    []string
	opts     player.Options
	newSink  func() player.Sink
	probe    track.Prober
	seekStep time.Duration
	gapless  bool
	rng      *rand.Rand
}

// NewContext builds a session over the given candidates. Without a
// restored queue it bootstraps one from a random candidate; if none of
// the candidates is playable there is nothing to do and construction
// fails. No controller is built yet: the first Fuzzy, Random or Resume
// call does that.
func NewContext(params Params) (*Context, error) {
	c := &Context{
		Queue:    params.Queue,
		paths:    params.Paths,
		opts:     params.Options,
		newSink:  params.NewSink,
		probe:    params.Probe,
		seekStep: params.SeekStep,
		gapless:  params.Gapless,
		rng:      params.Rand,
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.Queue == nil {
		dir, index, ok := playlist.Randomized(c.rng, c.paths, c.probe)
		if !ok {
			return nil, fmt.Errorf("%w: no audio files detected in the library", errors.ErrNoCandidateFound)
		}
		c.Queue = NewQueue(Entry{Dir: dir, Index: index})
	}
	return c, nil
}

// Paths returns the album candidate list.
func (c *Context) Paths() []string { return c.paths }

// Options returns the playback state to persist: the live controller's
// when one exists, the restored or default state otherwise.
func (c *Context) Options() player.Options {
	if c.Player != nil {
		return c.Player.Options()
	}
	return c.opts
}

// Fuzzy commits a finder selection: the directory is built from its
// first track in sequential mode and becomes the current context. On
// failure the running controller and the history are left untouched.
func (c *Context) Fuzzy(dir string) error {
	next, err := c.build(dir, 0, player.Sequential)
	if err != nil {
		return err
	}
	c.Queue.Fuzzy(Entry{Dir: dir})
	c.swap(next)
	return nil
}

// Previous rebuilds against the previous context. PreviousAlbum starts
// that album from the top; PreviousTrack returns to the stored track
// and stays in randomized mode. Without a previous context this is a
// no-op.
func (c *Context) Previous(kind Rebuild) error {
	if c.Queue.Len() < 2 {
		return nil
	}
	target := c.Queue.Front()
	index, mode := target.Index, player.Randomized
	if kind == PreviousAlbum {
		index, mode = 0, player.Sequential
	}
	next, err := c.build(target.Dir, index, mode)
	if err != nil {
		return err
	}
	c.Queue.Previous()
	c.swap(next)
	return nil
}

// Random rebuilds against the pending random context and pre-computes
// the next one. RandomAlbum starts the target from the top in
// sequential mode; RandomTrack jumps to the stored track and stays
// randomized. When no cross-playlist candidate can be found, the next
// pending entry falls back to a random track within the target itself.
func (c *Context) Random(kind Rebuild) error {
	target := c.Queue.Peek()
	index, mode := target.Index, player.Randomized
	if kind == RandomAlbum {
		index, mode = 0, player.Sequential
	}
	next, err := c.build(target.Dir, index, mode)
	if err != nil {
		return err
	}

	var pending Entry
	if dir, i, ok := playlist.Randomized(c.rng, c.paths, c.probe); ok {
		pending = Entry{Dir: dir, Index: i}
	} else {
		pending = Entry{Dir: target.Dir, Index: c.rng.IntN(next.Playlist.Len())}
	}
	c.Queue.Random(pending)
	c.swap(next)
	return nil
}

// Advance performs the rebuild a randomized controller has flagged as
// due, once its sink drained. Called once per tick, after Poll.
func (c *Context) Advance() error {
	if c.Player == nil || c.Player.Mode() != player.Randomized || !c.Player.NextTrackQueued() {
		return nil
	}
	return c.Random(RandomTrack)
}

// Resume rebuilds the current context of a restored queue, carrying the
// persisted status, volume and mute. A freshly bootstrapped queue has
// no current slot yet; then there is nothing to resume.
func (c *Context) Resume() error {
	if c.Queue.Len() < 2 {
		return nil
	}
	cur := c.Queue.entries[1]
	next, err := c.build(cur.Dir, cur.Index, player.Sequential)
	if err != nil {
		return err
	}
	c.swap(next)
	return nil
}

// Start brings the session to a playable state: a restored queue
// resumes its current context, a bootstrapped queue builds its seed
// entry. With a live controller already installed this is a no-op.
func (c *Context) Start() error {
	if c.Player != nil {
		return nil
	}
	if c.Queue.Len() >= 2 {
		return c.Resume()
	}
	seed := c.Queue.Front()
	next, err := c.build(seed.Dir, seed.Index, player.Sequential)
	if err != nil {
		return err
	}
	c.swap(next)
	return nil
}

// ToggleRandomize flips randomized mode on the live controller and
// records the playing index on the current history slot, so a later
// "previous" returns to the exact track randomization started from.
func (c *Context) ToggleRandomize() {
	if c.Player == nil {
		return
	}
	c.Player.ToggleMode(player.Randomized)
	if c.Player.Mode() == player.Randomized {
		c.Queue.SyncCurrent(c.Player.Playlist.Index)
	}
}

// ToggleShuffle flips in-playlist shuffled mode on the live controller.
func (c *Context) ToggleShuffle() {
	if c.Player == nil {
		return
	}
	c.Player.ToggleMode(player.Shuffled)
}

// Snapshot captures the session for persistence.
func (c *Context) Snapshot() *Session {
	return &Session{
		Options: c.Options(),
		Paths:   c.paths,
		Queue:   c.Queue.Snapshot(),
	}
}

// Close releases the live controller and its sink. Closing twice is
// safe; only the first call reaches the sink.
func (c *Context) Close() error {
	if c.Player == nil {
		return nil
	}
	err := c.Player.Close()
	c.Player = nil
	return err
}

// build constructs a controller over dir with a fresh sink. Stored
// indices can go stale when a directory changes on disk, so an
// out-of-range index falls back to the first track.
func (c *Context) build(dir string, index int, mode player.Mode) (*player.Player, error) {
	pl, err := playlist.FromDir(dir, c.probe)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= pl.Len() {
		index = 0
	}
	pl.Index = index

	opts := c.Options()
	next := player.New(player.Params{
		Playlist: pl,
		Sink:     c.newSink(),
		Volume:   int(opts.Volume),
		Mode:     mode,
		SeekStep: c.seekStep,
		Gapless:  &c.gapless,
		Rand:     c.rng,
	})
	if err := next.ApplyOptions(opts); err != nil {
		next.Close()
		return nil, err
	}
	return next, nil
}

// swap installs a freshly built controller, closing the one it
// replaces. At most one sink is ever live.
func (c *Context) swap(next *player.Player) {
	if c.Player != nil {
		if err := c.Player.Close(); err != nil {
			slog.Warn("closing replaced controller", slog.Any("error", err))
		}
	}
	c.Player = next
}
