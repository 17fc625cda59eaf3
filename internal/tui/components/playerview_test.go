package components

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/strum/internal/player"
	"github.com/tessro/strum/internal/track"
	"github.com/tessro/strum/internal/tui/styles"
)

func testState(n, index int) player.State {
	tracks := make([]track.Track, n)
	for i := range tracks {
		tracks[i] = track.Track{
			Title:    fmt.Sprintf("Track %02d", i+1),
			Artist:   "Artist",
			Album:    "Album",
			Year:     2001,
			Number:   i + 1,
			Duration: 3 * time.Minute,
		}
	}
	return player.State{
		Status:   player.Playing,
		Mode:     player.Sequential,
		Elapsed:  time.Minute,
		Duration: 3 * time.Minute,
		Volume:   100,
		Index:    index,
		Tracks:   tracks,
	}
}

func TestBadges(t *testing.T) {
	tests := []struct {
		mode  player.Mode
		muted bool
		want  string
	}{
		{player.Sequential, false, ""},
		{player.Sequential, true, "  m"},
		{player.Randomized, false, "  *"},
		{player.Randomized, true, " *m"},
		{player.Shuffled, false, "  ~"},
		{player.Shuffled, true, " ~m"},
	}
	for _, tt := range tests {
		if got := badges(tt.mode, tt.muted); got != tt.want {
			t.Errorf("badges(%v, %v) = %q, want %q", tt.mode, tt.muted, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer title here", 10, "a longe..."},
		{"abcdef", 3, "abc"},
		{"abcdef", 0, ""},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}

func TestUpdateOffset(t *testing.T) {
	v := NewPlayerView(styles.New("mocha"))
	tests := []struct {
		total, index, height int
		want                 int
	}{
		{10, 0, 5, 0},  // first track never scrolls
		{10, 7, 12, 0}, // everything fits
		{10, 7, 3, 7},  // one visible row tracks the index
		{10, 7, 4, 7},  // two rows: index on top
		{10, 9, 4, 8},  // two rows at the end: last stays visible
		{10, 3, 8, 2},  // early index scrolls one above
		{10, 4, 8, 3},  // boundary index still one above
		{10, 8, 8, 4},  // late index pins the tail
		{10, 9, 8, 4},  // last track pins the tail too
	}
	for _, tt := range tests {
		got := v.updateOffset(testState(tt.total, tt.index), tt.height)
		if got != tt.want {
			t.Errorf("updateOffset(total %d, index %d, height %d) = %d, want %d",
				tt.total, tt.index, tt.height, got, tt.want)
		}
	}
}

func TestClick(t *testing.T) {
	v := NewPlayerView(styles.New("mocha"))
	state := testState(5, 2)
	now := time.Now()

	if c, _ := v.Click(0, 10, state, now); c != ClickNone {
		t.Errorf("header click = %v, want none", c)
	}
	if c, _ := v.Click(9, 10, state, now); c != ClickNone {
		t.Errorf("progress-row click = %v, want none", c)
	}
	if c, _ := v.Click(7, 10, state, now); c != ClickNone {
		t.Errorf("click past the playlist = %v, want none", c)
	}

	if c, i := v.Click(3, 10, state, now); c != ClickToggle || i != 2 {
		t.Errorf("click on playing row = (%v, %d), want (toggle, 2)", c, i)
	}

	if c, i := v.Click(1, 10, state, now); c != ClickSelect || i != 0 {
		t.Errorf("first click = (%v, %d), want (select, 0)", c, i)
	}
	if c, i := v.Click(1, 10, state, now.Add(100*time.Millisecond)); c != ClickPlay || i != 0 {
		t.Errorf("second click inside the window = (%v, %d), want (play, 0)", c, i)
	}
	if c, _ := v.Click(1, 10, state, now.Add(200*time.Millisecond)); c != ClickSelect {
		t.Errorf("click after a play = %v, want a fresh select", c)
	}

	// An expired window re-arms instead of playing.
	v.ClearSelection()
	v.Click(1, 10, state, now)
	late := now.Add(DoubleClickWindow + time.Millisecond)
	if c, _ := v.Click(1, 10, state, late); c != ClickSelect {
		t.Errorf("click after the window = %v, want select", c)
	}

	// A different row re-arms too.
	v.ClearSelection()
	v.Click(1, 10, state, now)
	if c, i := v.Click(2, 10, state, now); c != ClickSelect || i != 1 {
		t.Errorf("click on another row = (%v, %d), want (select, 1)", c, i)
	}

	// ClearSelection disarms a pending double click.
	v.ClearSelection()
	v.Click(1, 10, state, now)
	v.ClearSelection()
	if c, _ := v.Click(1, 10, state, now.Add(time.Millisecond)); c != ClickSelect {
		t.Errorf("click after ClearSelection = %v, want select", c)
	}
}

func TestRenderLayout(t *testing.T) {
	v := NewPlayerView(styles.New("mocha"))
	state := testState(3, 0)
	const width, height = 60, 6

	out := v.Render(state, false, "", width, height)
	rows := strings.Split(out, "\n")
	if len(rows) != height {
		t.Fatalf("rendered %d rows, want %d", len(rows), height)
	}

	if w := lipgloss.Width(rows[0]); w > width {
		t.Errorf("header width = %d, want <= %d", w, width)
	}
	for i, row := range rows[1:] {
		if row == "" {
			continue // filler between playlist and progress row
		}
		if w := lipgloss.Width(row); w != width {
			t.Errorf("row %d width = %d, want %d", i+1, w, width)
		}
	}

	playing := rows[1]
	if !strings.Contains(playing, ">") {
		t.Errorf("playing row %q has no play symbol", playing)
	}
	if !strings.Contains(playing, "01  Track 01") {
		t.Errorf("playing row %q missing numbered title", playing)
	}
	if got := string([]rune(playing)[width-9:]); got != "  03:00  " {
		t.Errorf("duration column = %q, want %q", got, "  03:00  ")
	}

	if !strings.Contains(rows[0], "Artist") || !strings.Contains(rows[0], "Album (2001)") {
		t.Errorf("header = %q, want artist and album with year", rows[0])
	}

	bottom := rows[height-1]
	if got := string([]rune(bottom)[:8]); got != "  01:00 " {
		t.Errorf("elapsed cell = %q", got)
	}
	if got := string([]rune(bottom)[width-8:]); got != "  02:00 " {
		t.Errorf("remaining cell = %q", got)
	}
}

func TestRenderBadgesOnActiveRow(t *testing.T) {
	v := NewPlayerView(styles.New("mocha"))
	state := testState(3, 1)
	state.Mode = player.Randomized
	state.Muted = true
	const width = 60

	out := v.Render(state, false, "", width, 6)
	active := strings.Split(out, "\n")[2]
	if got := string([]rune(active)[width-12 : width-9]); got != " *m" {
		t.Errorf("badge cell = %q, want %q", got, " *m")
	}
}

func TestRenderVolumeOverlay(t *testing.T) {
	v := NewPlayerView(styles.New("mocha"))
	state := testState(3, 0)
	state.Volume = 85

	out := v.Render(state, true, "", 60, 6)
	header := strings.Split(out, "\n")[0]
	if !strings.Contains(header, "vol:  85 %") {
		t.Errorf("header = %q, want the volume cell", header)
	}

	hidden := v.Render(state, false, "", 60, 6)
	if strings.Contains(strings.Split(hidden, "\n")[0], "vol:") {
		t.Error("volume cell rendered while hidden")
	}
}

func TestRenderErrorReplacesProgressRow(t *testing.T) {
	v := NewPlayerView(styles.New("mocha"))
	state := testState(3, 0)

	out := v.Render(state, false, "no audio device", 60, 6)
	rows := strings.Split(out, "\n")
	last := rows[len(rows)-1]
	if !strings.Contains(last, "no audio device") {
		t.Errorf("bottom row = %q, want the error text", last)
	}
	if strings.Contains(last, "01:00") {
		t.Error("progress clock rendered alongside the error")
	}
}
