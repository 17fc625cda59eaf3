// Package styles holds the lipgloss styles the terminal UI renders
// with, built from a catppuccin flavor.
package styles

import (
	"fmt"
	"strings"
	"time"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Styles carries every style the views use. Build one with New and
// share it; the zero value renders unstyled text.
type Styles struct {
	// Player screen
	Artist  lipgloss.Style // header artist segment
	Album   lipgloss.Style // header album and year segment
	Track   lipgloss.Style // inactive playlist rows
	Active  lipgloss.Style // the playing row
	Badge   lipgloss.Style // mode and mute badges
	Clock   lipgloss.Style // elapsed and remaining times
	Volume  lipgloss.Style // volume overlay
	Bar     lipgloss.Style // progress bar cells
	Playing lipgloss.Style // ">" status symbol
	Paused  lipgloss.Style // "|" status symbol
	Stopped lipgloss.Style // "." status symbol

	// Overlays
	Title    lipgloss.Style // finder and help titles
	Match    lipgloss.Style // fuzzy-matched characters
	Selected lipgloss.Style // finder cursor row
	Muted    lipgloss.Style // hints, dividers, footers
	Error    lipgloss.Style // status-line errors
	Border   lipgloss.Style // overlay frame
}

// palette is the subset of a catppuccin flavor the UI draws from.
type palette struct {
	text    lipgloss.Color
	subtext lipgloss.Color
	overlay lipgloss.Color
	surface lipgloss.Color
	green   lipgloss.Color
	yellow  lipgloss.Color
	blue    lipgloss.Color
	teal    lipgloss.Color
	mauve   lipgloss.Color
	peach   lipgloss.Color
	red     lipgloss.Color
}

// New builds the style set for a flavor name. Unknown names fall back
// to mocha.
func New(flavor string) Styles {
	p := flavorPalette(flavor)

	return Styles{
		Artist:  lipgloss.NewStyle().Bold(true).Foreground(p.green),
		Album:   lipgloss.NewStyle().Bold(true).Italic(true).Foreground(p.yellow),
		Track:   lipgloss.NewStyle().Foreground(p.blue),
		Active:  lipgloss.NewStyle().Foreground(p.text),
		Badge:   lipgloss.NewStyle().Italic(true).Foreground(p.teal),
		Clock:   lipgloss.NewStyle().Foreground(p.text),
		Volume:  lipgloss.NewStyle().Foreground(p.overlay),
		Bar:     lipgloss.NewStyle().Foreground(p.mauve),
		Playing: lipgloss.NewStyle().Foreground(p.yellow),
		Paused:  lipgloss.NewStyle().Foreground(p.text),
		Stopped: lipgloss.NewStyle().Foreground(p.red),

		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.mauve),
		Match:    lipgloss.NewStyle().Bold(true).Foreground(p.peach),
		Selected: lipgloss.NewStyle().Background(p.surface),
		Muted:    lipgloss.NewStyle().Foreground(p.subtext),
		Error:    lipgloss.NewStyle().Foreground(p.red),
		Border:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.overlay),
	}
}

// Flavors lists the accepted theme flavor names.
var Flavors = []string{"latte", "frappe", "macchiato", "mocha"}

func flavorPalette(name string) palette {
	switch strings.ToLower(name) {
	case "latte":
		f := catppuccin.Latte
		return palette{
			text:    lipgloss.Color(f.Text().Hex),
			subtext: lipgloss.Color(f.Subtext0().Hex),
			overlay: lipgloss.Color(f.Overlay1().Hex),
			surface: lipgloss.Color(f.Surface0().Hex),
			green:   lipgloss.Color(f.Green().Hex),
			yellow:  lipgloss.Color(f.Yellow().Hex),
			blue:    lipgloss.Color(f.Blue().Hex),
			teal:    lipgloss.Color(f.Teal().Hex),
			mauve:   lipgloss.Color(f.Mauve().Hex),
			peach:   lipgloss.Color(f.Peach().Hex),
			red:     lipgloss.Color(f.Red().Hex),
		}
	case "frappe":
		f := catppuccin.Frappe
		return palette{
			text:    lipgloss.Color(f.Text().Hex),
			subtext: lipgloss.Color(f.Subtext0().Hex),
			overlay: lipgloss.Color(f.Overlay1().Hex),
			surface: lipgloss.Color(f.Surface0().Hex),
			green:   lipgloss.Color(f.Green().Hex),
			yellow:  lipgloss.Color(f.Yellow().Hex),
			blue:    lipgloss.Color(f.Blue().Hex),
			teal:    lipgloss.Color(f.Teal().Hex),
			mauve:   lipgloss.Color(f.Mauve().Hex),
			peach:   lipgloss.Color(f.Peach().Hex),
			red:     lipgloss.Color(f.Red().Hex),
		}
	case "macchiato":
		f := catppuccin.Macchiato
		return palette{
			text:    lipgloss.Color(f.Text().Hex),
			subtext: lipgloss.Color(f.Subtext0().Hex),
			overlay: lipgloss.Color(f.Overlay1().Hex),
			surface: lipgloss.Color(f.Surface0().Hex),
			green:   lipgloss.Color(f.Green().Hex),
			yellow:  lipgloss.Color(f.Yellow().Hex),
			blue:    lipgloss.Color(f.Blue().Hex),
			teal:    lipgloss.Color(f.Teal().Hex),
			mauve:   lipgloss.Color(f.Mauve().Hex),
			peach:   lipgloss.Color(f.Peach().Hex),
			red:     lipgloss.Color(f.Red().Hex),
		}
	default:
		f := catppuccin.Mocha
		return palette{
			text:    lipgloss.Color(f.Text().Hex),
			subtext: lipgloss.Color(f.Subtext0().Hex),
			overlay: lipgloss.Color(f.Overlay1().Hex),
			surface: lipgloss.Color(f.Surface0().Hex),
			green:   lipgloss.Color(f.Green().Hex),
			yellow:  lipgloss.Color(f.Yellow().Hex),
			blue:    lipgloss.Color(f.Blue().Hex),
			teal:    lipgloss.Color(f.Teal().Hex),
			mauve:   lipgloss.Color(f.Mauve().Hex),
			peach:   lipgloss.Color(f.Peach().Hex),
			red:     lipgloss.Color(f.Red().Hex),
		}
	}
}

// eighths maps a 0-8 remainder to a partial block, so the progress bar
// moves in one-eighth cell steps instead of whole cells.
var eighths = [9]string{" ", "▏", "▎", "▍", "▌", "▋", "▊", "▉", "█"}

// ratio splits value/max over length cells into whole cells and a
// remainder in eighths.
func ratio(value, max, length int) (int, int) {
	if max <= 0 || length <= 0 {
		return 0, 0
	}
	whole := length * value / max
	extra := (length*value - max*whole) * 8 / max
	if whole >= length {
		return length, 0
	}
	return whole, extra
}

// ProgressBar renders elapsed/total over exactly width cells: solid
// blocks, one fractional cell, then padding.
func (s Styles) ProgressBar(elapsed, total time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	whole, extra := ratio(int(elapsed/time.Second), int(total/time.Second), width)

	var b strings.Builder
	b.WriteString(strings.Repeat("█", whole))
	if whole < width {
		b.WriteString(eighths[extra])
	}
	bar := s.Bar.Render(b.String())

	if pad := width - whole - 1; pad > 0 {
		bar += strings.Repeat(" ", pad)
	}
	return bar
}

// Clock renders a duration as the fixed-width "  MM:SS  " cell used in
// the duration column and on the progress row.
func Clock(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("  %02d:%02d  ", secs/60, secs%60)
}

// VolumeCell renders the volume overlay, using the short form when the
// screen is too narrow for the labeled one.
func VolumeCell(volume, width int) string {
	if width > 14 {
		return fmt.Sprintf("  vol: %3d %%  ", volume)
	}
	return fmt.Sprintf("  %3d %%  ", volume)
}
