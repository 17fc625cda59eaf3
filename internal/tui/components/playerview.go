// Package components holds the render components the TUI screens are
// assembled from.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/strum/internal/player"
	"github.com/tessro/strum/internal/tui/styles"
)

// DoubleClickWindow is how long a selecting click stays armed; a second
// click on the same row inside the window plays that track.
const DoubleClickWindow = 500 * time.Millisecond

// PlayerView renders the playlist screen: a header row, the track
// rows and the progress row, in fixed columns.
type PlayerView struct {
	styles styles.Styles

	offset     int
	selected   int // mouse-selected row, -1 when none
	selectedAt time.Time
}

// NewPlayerView creates the playlist screen component.
func NewPlayerView(s styles.Styles) *PlayerView {
	return &PlayerView{styles: s, selected: -1}
}

// ClearSelection drops the armed mouse selection. Any consumed key
// press does this, so a stale click never plays a track later.
func (v *PlayerView) ClearSelection() {
	v.selected = -1
}

// Click identifies what a left click at screen row y means.
type Click int

const (
	ClickNone   Click = iota
	ClickToggle       // clicked the playing row: toggle pause
	ClickPlay         // second click on an armed row: play it
	ClickSelect       // first click: row armed
)

// Click maps a left click to its action and the track index involved.
func (v *PlayerView) Click(y, height int, state player.State, now time.Time) (Click, int) {
	if y < 1 || y > height-2 {
		return ClickNone, 0
	}
	index := v.offset + y - 1
	if index >= len(state.Tracks) {
		return ClickNone, 0
	}

	switch {
	case index == state.Index:
		return ClickToggle, index
	case index == v.selected && now.Sub(v.selectedAt) <= DoubleClickWindow:
		v.selected = -1
		return ClickPlay, index
	default:
		v.selected = index
		v.selectedAt = now
		return ClickSelect, index
	}
}

// Render draws the full screen. The status argument, when non-empty,
// replaces the progress row; it is used for transient errors.
func (v *PlayerView) Render(state player.State, showVolume bool, status string, width, height int) string {
	if width < 10 || height < 2 || len(state.Tracks) == 0 {
		return ""
	}
	v.offset = v.updateOffset(state, height)

	rows := make([]string, 0, height)
	rows = append(rows, v.header(state, showVolume, width))

	visible := height - 2
	rows = append(rows, v.trackRows(state, width, visible)...)
	for len(rows) < height-1 {
		rows = append(rows, "")
	}

	if status != "" {
		rows = append(rows, v.styles.Error.Render(truncate("  "+status, width)))
	} else {
		rows = append(rows, v.progressRow(state, width))
	}
	return strings.Join(rows, "\n")
}

// header renders "Artist  Album (Year)" with the volume overlay
// right-aligned when it is showing.
func (v *PlayerView) header(state player.State, showVolume bool, width int) string {
	cur := state.Tracks[state.Index]
	album := cur.Album
	if cur.Year != 0 {
		album = fmt.Sprintf("%s (%d)", album, cur.Year)
	}

	used := 2 + lipgloss.Width(cur.Artist) + 2 + lipgloss.Width(album)
	line := pad(2) + v.styles.Artist.Render(cur.Artist) +
		pad(2) + v.styles.Album.Render(album)

	if showVolume {
		cell := styles.VolumeCell(state.Volume, width)
		if gap := width - used - len(cell); gap >= 0 {
			line += pad(gap) + v.styles.Volume.Render(cell)
		}
	}
	return line
}

// trackRows renders up to visible playlist rows starting at the scroll
// offset. Rows are "NN  Title" with the duration right-aligned; the
// playing row carries the status symbol and the mode badges.
func (v *PlayerView) trackRows(state player.State, width, visible int) []string {
	column := width - 9
	if column < 0 {
		column = 0
	}

	rows := make([]string, 0, visible)
	for i := v.offset; i < len(state.Tracks) && len(rows) < visible; i++ {
		t := state.Tracks[i]
		title := fmt.Sprintf("%02d  %s", t.Number, t.Title)
		dur := styles.Clock(t.Duration)

		badge := ""
		if i == state.Index && column > 11 {
			badge = badges(state.Mode, state.Muted)
		}

		textEnd := column
		if badge != "" {
			textEnd = column - 3
		}
		title = truncate(title, textEnd-6-1)
		gap := textEnd - 6 - lipgloss.Width(title)

		if i == state.Index {
			row := pad(3) + v.statusSymbol(state.Status) + pad(2) +
				v.styles.Active.Render(title) + pad(gap)
			if badge != "" {
				row += v.styles.Badge.Render(badge)
			}
			rows = append(rows, row+v.styles.Active.Render(dur))
		} else {
			rows = append(rows, v.styles.Track.Render(pad(6)+title+pad(gap)+dur))
		}
	}
	return rows
}

// progressRow renders "  MM:SS " elapsed, the bar, and "  MM:SS " left
// to play.
func (v *PlayerView) progressRow(state player.State, width int) string {
	barWidth := width - 16
	if barWidth < 0 {
		barWidth = 0
	}

	remaining := state.Duration - state.Elapsed
	if remaining < 0 {
		remaining = 0
	}

	left := styles.Clock(state.Elapsed)[:8]
	right := styles.Clock(remaining)[:8]
	bar := v.styles.ProgressBar(state.Elapsed, state.Duration, barWidth)

	return v.styles.Clock.Render(left) + bar + v.styles.Clock.Render(right)
}

// updateOffset scrolls the track rows so the playing row stays visible
// on small screens, pinning the tail once the end of the playlist
// reaches the bottom row.
func (v *PlayerView) updateOffset(state player.State, height int) int {
	total := len(state.Tracks)
	index := state.Index
	if index == 0 || height >= total+2 {
		return 0
	}
	switch height {
	case 3:
		return index
	case 4:
		if index == total-1 {
			return index - 1
		}
		return index
	default:
		diff := total + 2 - height
		if index <= diff {
			return index - 1
		}
		return diff
	}
}

func (v *PlayerView) statusSymbol(s player.Status) string {
	switch s {
	case player.Playing:
		return v.styles.Playing.Render(">")
	case player.Paused:
		return v.styles.Paused.Render("|")
	}
	return v.styles.Stopped.Render(".")
}

// badges marks the active row with the playback mode and mute state,
// right-aligned in a three-character cell.
func badges(mode player.Mode, muted bool) string {
	var mark string
	switch mode {
	case player.Randomized:
		mark = "*"
	case player.Shuffled:
		mark = "~"
	}

	switch {
	case mark != "" && muted:
		return " " + mark + "m"
	case mark != "":
		return "  " + mark
	case muted:
		return "  m"
	}
	return ""
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
