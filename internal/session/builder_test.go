package session

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	strumerrors "github.com/tessro/strum/internal/errors"
	"github.com/tessro/strum/internal/player"
)

// memSink is a minimal in-memory sink for exercising rebuilds.
type memSink struct {
	items  int
	closed bool
}

func (s *memSink) Append(string) error { s.items++; return nil }

func (s *memSink) Play() {}

func (s *memSink) Pause() {}

func (s *memSink) Stop() { s.items = 0 }

func (s *memSink) Pop() {
	if s.items > 1 {
		s.items--
	}
}

func (s *memSink) TrySeek(time.Duration) error { return nil }

func (s *memSink) SetVolume(int) {}

func (s *memSink) Len() int { return s.items }

func (s *memSink) Empty() bool { return s.items == 0 }

func (s *memSink) Close() error {
	s.closed = true
	return nil
}

func writeAlbum(t *testing.T, parent, name string, files ...string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// fixture wires a Context over temp-dir albums, tracking every sink it
// hands out so tests can observe closes.
type fixture struct {
	ctx   *Context
	sinks []*memSink
}

func newFixture(t *testing.T, queue *Queue, paths ...string) *fixture {
	t.Helper()
	f := &fixture{}
	ctx, err := NewContext(Params{
		Paths:   paths,
		Queue:   queue,
		Options: player.DefaultOptions(),
		NewSink: func() player.Sink {
			s := &memSink{}
			f.sinks = append(f.sinks, s)
			return s
		},
		Probe:    func(string) (time.Duration, error) { return 3 * time.Minute, nil },
		SeekStep: 10 * time.Second,
		Gapless:  true,
		Rand:     rand.New(rand.NewPCG(3, 5)),
	})
	if err != nil {
		t.Fatal(err)
	}
	f.ctx = ctx
	return f
}

func TestNewContextBootstrapsQueue(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")

	f := newFixture(t, nil, a)
	if f.ctx.Queue.Len() != 1 {
		t.Fatalf("Queue.Len = %d, want 1", f.ctx.Queue.Len())
	}
	boot := f.ctx.Queue.Front()
	if boot.Dir != a {
		t.Errorf("bootstrap dir = %q, want %q", boot.Dir, a)
	}
	if boot.Index < 0 || boot.Index >= 2 {
		t.Errorf("bootstrap index = %d, want within the album", boot.Index)
	}
	if f.ctx.Player != nil {
		t.Error("NewContext built a controller; the first selection should")
	}
}

func TestNewContextNoCandidates(t *testing.T) {
	_, err := NewContext(Params{
		NewSink: func() player.Sink { return &memSink{} },
		Probe:   func(string) (time.Duration, error) { return 0, nil },
	})
	if !errors.Is(err, strumerrors.ErrNoCandidateFound) {
		t.Fatalf("err = %v, want ErrNoCandidateFound", err)
	}
}

func TestFuzzyBuildsPlayingController(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")

	f := newFixture(t, nil, a)
	if err := f.ctx.Fuzzy(a); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player == nil {
		t.Fatal("no controller after fuzzy commit")
	}
	if f.ctx.Player.Playlist.Dir != a {
		t.Errorf("Playlist.Dir = %q, want %q", f.ctx.Player.Playlist.Dir, a)
	}
	if got := f.ctx.Player.Status(); got != player.Playing {
		t.Errorf("Status = %v, want playing (default options)", got)
	}
	if got := f.ctx.Queue.Len(); got != 3 {
		t.Errorf("Queue.Len = %d, want 3 after first fuzzy", got)
	}
}

func TestFuzzyFailureKeepsControllerAndHistory(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3")

	f := newFixture(t, nil, a)
	if err := f.ctx.Fuzzy(a); err != nil {
		t.Fatal(err)
	}
	before := f.ctx.Player
	history := f.ctx.Queue.Snapshot()

	err := f.ctx.Fuzzy(filepath.Join(root, "missing"))
	if err == nil {
		t.Fatal("fuzzy on a missing directory succeeded")
	}
	if f.ctx.Player != before {
		t.Error("failed fuzzy replaced the controller")
	}
	for i, e := range f.ctx.Queue.Snapshot() {
		if e != history[i] {
			t.Fatalf("failed fuzzy mutated history: %v", f.ctx.Queue.Snapshot())
		}
	}
}

func TestPreviousWithoutContextIsNoOp(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3")

	f := newFixture(t, nil, a)
	if err := f.ctx.Previous(PreviousAlbum); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player != nil {
		t.Error("previous without history built a controller")
	}
}

func TestPreviousAlbumStartsFromTop(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")
	b := writeAlbum(t, root, "b", "01.mp3")

	f := newFixture(t, RestoreQueue([]Entry{e(a, 1), e(b, 0)}), a, b)
	if err := f.ctx.Previous(PreviousAlbum); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player.Playlist.Dir != a {
		t.Errorf("rebuilt dir = %q, want %q", f.ctx.Player.Playlist.Dir, a)
	}
	if f.ctx.Player.Playlist.Index != 0 {
		t.Errorf("Index = %d, want 0 for an album-level previous", f.ctx.Player.Playlist.Index)
	}
	if f.ctx.Player.Mode() != player.Sequential {
		t.Errorf("Mode = %v, want sequential", f.ctx.Player.Mode())
	}
	// History swapped so the next previous toggles back.
	if f.ctx.Queue.Front() != e(b, 0) {
		t.Errorf("Front = %v, want b/0 after swap", f.ctx.Queue.Front())
	}
}

func TestPreviousTrackRestoresIndexAndMode(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3", "03.mp3")
	b := writeAlbum(t, root, "b", "01.mp3")

	f := newFixture(t, RestoreQueue([]Entry{e(a, 2), e(b, 0)}), a, b)
	if err := f.ctx.Previous(PreviousTrack); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player.Playlist.Index != 2 {
		t.Errorf("Index = %d, want the stored 2", f.ctx.Player.Playlist.Index)
	}
	if f.ctx.Player.Mode() != player.Randomized {
		t.Errorf("Mode = %v, want randomized restored", f.ctx.Player.Mode())
	}
}

func TestPreviousClampsStaleIndex(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3")
	b := writeAlbum(t, root, "b", "01.mp3")

	// Index 5 points past the end of the album as it exists now.
	f := newFixture(t, RestoreQueue([]Entry{e(a, 5), e(b, 0)}), a, b)
	if err := f.ctx.Previous(PreviousTrack); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player.Playlist.Index != 0 {
		t.Errorf("Index = %d, want stale index clamped to 0", f.ctx.Player.Playlist.Index)
	}
}

func TestRandomRebuildsTargetAndQueuesNext(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")
	b := writeAlbum(t, root, "b", "01.mp3", "02.mp3")

	f := newFixture(t, nil, a, b)
	target := f.ctx.Queue.Peek()

	if err := f.ctx.Random(RandomTrack); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player.Playlist.Dir != target.Dir {
		t.Errorf("rebuilt dir = %q, want the pending target %q", f.ctx.Player.Playlist.Dir, target.Dir)
	}
	if f.ctx.Player.Mode() != player.Randomized {
		t.Errorf("Mode = %v, want randomized", f.ctx.Player.Mode())
	}
	if f.ctx.Queue.Len() != 3 {
		t.Fatalf("Queue.Len = %d, want 3 after bootstrap random", f.ctx.Queue.Len())
	}
	pending := f.ctx.Queue.Back()
	if pending.Dir != a && pending.Dir != b {
		t.Errorf("pending dir = %q, want one of the candidates", pending.Dir)
	}
}

func TestRandomAlbumStartsFromTop(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")

	f := newFixture(t, RestoreQueue([]Entry{e(a, 0), e(a, 1)}), a)
	if err := f.ctx.Random(RandomAlbum); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player.Playlist.Index != 0 {
		t.Errorf("Index = %d, want 0 for an album-level random", f.ctx.Player.Playlist.Index)
	}
	if f.ctx.Player.Mode() != player.Sequential {
		t.Errorf("Mode = %v, want sequential", f.ctx.Player.Mode())
	}
}

func TestRandomFallsBackWithinTarget(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")

	// No candidate paths at all: the pending entry must fall back to a
	// random track within the rebuilt album.
	f := newFixture(t, RestoreQueue([]Entry{e(a, 0), e(a, 0)}))
	if err := f.ctx.Random(RandomTrack); err != nil {
		t.Fatal(err)
	}
	pending := f.ctx.Queue.Back()
	if pending.Dir != a {
		t.Errorf("pending dir = %q, want fallback within %q", pending.Dir, a)
	}
	if pending.Index < 0 || pending.Index >= 2 {
		t.Errorf("pending index = %d, want within the album", pending.Index)
	}
}

func TestRebuildClosesReplacedController(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3")
	b := writeAlbum(t, root, "b", "01.mp3")

	f := newFixture(t, nil, a, b)
	if err := f.ctx.Fuzzy(a); err != nil {
		t.Fatal(err)
	}
	if err := f.ctx.Fuzzy(b); err != nil {
		t.Fatal(err)
	}
	if len(f.sinks) != 2 {
		t.Fatalf("sinks built = %d, want 2", len(f.sinks))
	}
	if !f.sinks[0].closed {
		t.Error("replaced controller's sink was not closed")
	}
	if f.sinks[1].closed {
		t.Error("live controller's sink was closed")
	}
}

func TestAdvanceRunsQueuedRandomRebuild(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")
	b := writeAlbum(t, root, "b", "01.mp3", "02.mp3")

	f := newFixture(t, nil, a, b)
	if err := f.ctx.Fuzzy(a); err != nil {
		t.Fatal(err)
	}
	f.ctx.ToggleRandomize()
	if f.ctx.Player.Mode() != player.Randomized {
		t.Fatal("randomized mode not active")
	}
	before := f.ctx.Player

	// Nothing due while audio is still queued.
	if err := f.ctx.Advance(); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player != before {
		t.Fatal("Advance rebuilt with audio still playing")
	}

	// Drain the sink; the next poll flags a rebuild as due.
	f.sinks[len(f.sinks)-1].items = 0
	if err := f.ctx.Player.Poll(); err != nil {
		t.Fatal(err)
	}
	if err := f.ctx.Advance(); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player == before {
		t.Error("Advance did not rebuild after the sink drained")
	}
	if f.ctx.Player.Mode() != player.Randomized {
		t.Errorf("Mode = %v, want randomized carried over", f.ctx.Player.Mode())
	}
}

func TestToggleRandomizeSyncsCurrentSlot(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")

	f := newFixture(t, nil, a)
	if err := f.ctx.Fuzzy(a); err != nil {
		t.Fatal(err)
	}
	if err := f.ctx.Player.PlayIndex(1); err != nil {
		t.Fatal(err)
	}
	f.ctx.ToggleRandomize()

	if got := f.ctx.Queue.Snapshot()[1].Index; got != 1 {
		t.Errorf("current slot index = %d, want the playing track 1", got)
	}
}

func TestResume(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")
	b := writeAlbum(t, root, "b", "01.mp3", "02.mp3")

	opts := player.Options{Status: player.Paused.Code(), Volume: 80}
	ctx, err := NewContext(Params{
		Paths:   []string{a, b},
		Queue:   RestoreQueue([]Entry{e(a, 0), e(b, 1)}),
		Options: opts,
		NewSink: func() player.Sink { return &memSink{} },
		Probe:   func(string) (time.Duration, error) { return time.Minute, nil },
		Rand:    rand.New(rand.NewPCG(3, 5)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.Resume(); err != nil {
		t.Fatal(err)
	}
	if ctx.Player == nil {
		t.Fatal("no controller after resume")
	}
	if ctx.Player.Playlist.Dir != b || ctx.Player.Playlist.Index != 1 {
		t.Errorf("resumed at %q index %d, want %q index 1",
			ctx.Player.Playlist.Dir, ctx.Player.Playlist.Index, b)
	}
	if ctx.Player.Status() != player.Paused {
		t.Errorf("Status = %v, want the persisted paused state", ctx.Player.Status())
	}
	if ctx.Player.Volume() != 80 {
		t.Errorf("Volume = %d, want the persisted 80", ctx.Player.Volume())
	}
}

func TestResumeFreshBootstrapIsNoOp(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3")

	f := newFixture(t, nil, a)
	if err := f.ctx.Resume(); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player != nil {
		t.Error("resume on a fresh bootstrap built a controller")
	}
}

func TestStartBootstrapBuildsSeed(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")

	f := newFixture(t, nil, a)
	if err := f.ctx.Start(); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player == nil {
		t.Fatal("no controller after start")
	}
	if f.ctx.Player.Playlist.Dir != a {
		t.Errorf("started in %q, want the bootstrapped candidate %q",
			f.ctx.Player.Playlist.Dir, a)
	}
	if f.ctx.Queue.Len() != 1 {
		t.Errorf("queue length after start = %d, want 1", f.ctx.Queue.Len())
	}
}

func TestStartRestoredQueueResumes(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")
	b := writeAlbum(t, root, "b", "01.mp3", "02.mp3")

	f := newFixture(t, RestoreQueue([]Entry{e(a, 0), e(b, 1)}), a, b)
	if err := f.ctx.Start(); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player == nil {
		t.Fatal("no controller after start")
	}
	if f.ctx.Player.Playlist.Dir != b || f.ctx.Player.Playlist.Index != 1 {
		t.Errorf("started at %q index %d, want the restored current %q index 1",
			f.ctx.Player.Playlist.Dir, f.ctx.Player.Playlist.Index, b)
	}
}

func TestStartWithLiveControllerIsNoOp(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3")

	f := newFixture(t, nil, a)
	if err := f.ctx.Fuzzy(a); err != nil {
		t.Fatal(err)
	}
	p := f.ctx.Player
	if err := f.ctx.Start(); err != nil {
		t.Fatal(err)
	}
	if f.ctx.Player != p {
		t.Error("start replaced a live controller")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	root := t.TempDir()
	a := writeAlbum(t, root, "a", "01.mp3", "02.mp3")

	f := newFixture(t, nil, a)
	if err := f.ctx.Fuzzy(a); err != nil {
		t.Fatal(err)
	}

	snap := f.ctx.Snapshot()
	storage, err := NewStorage(filepath.Join(root, "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := storage.Save(snap); err != nil {
		t.Fatal(err)
	}
	loaded, err := storage.Load()
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Options != snap.Options {
		t.Errorf("Options = %+v, want %+v", loaded.Options, snap.Options)
	}
	if len(loaded.Paths) != 1 || loaded.Paths[0] != a {
		t.Errorf("Paths = %v, want [%s]", loaded.Paths, a)
	}
	restored := RestoreQueue(loaded.Queue)
	if restored.Len() != f.ctx.Queue.Len() {
		t.Fatalf("restored Len = %d, want %d", restored.Len(), f.ctx.Queue.Len())
	}
	for i, want := range f.ctx.Queue.Snapshot() {
		if got := restored.Snapshot()[i]; got != want {
			t.Errorf("restored[%d] = %v, want %v", i, got, want)
		}
	}
}
