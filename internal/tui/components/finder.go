package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/strum/internal/library"
	"github.com/tessro/strum/internal/tui/styles"
)

// Finder is the album picker: a text input over a fuzzy-filtered list
// of library candidates.
type Finder struct {
	styles styles.Styles

	input      textinput.Model
	candidates []library.Candidate
	matches    []library.Match
	cursor     int
	top        int
}

// NewFinder creates the picker over the scanned library.
func NewFinder(s styles.Styles, candidates []library.Candidate) *Finder {
	ti := textinput.New()
	ti.Placeholder = "album or artist"
	ti.Prompt = "  > "
	ti.CharLimit = 100
	ti.Width = 50

	return &Finder{
		styles:     s,
		input:      ti,
		candidates: candidates,
		matches:    library.Search("", candidates),
	}
}

// Open resets the query and focuses the input. The returned command
// starts the cursor blink.
func (f *Finder) Open() tea.Cmd {
	f.input.SetValue("")
	f.input.Focus()
	f.matches = library.Search("", f.candidates)
	f.cursor = 0
	f.top = 0
	return textinput.Blink
}

// Close blurs the input.
func (f *Finder) Close() {
	f.input.Blur()
}

// Update forwards a message to the text input and refilters when the
// query changed.
func (f *Finder) Update(msg tea.Msg) tea.Cmd {
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		f.matches = library.Search(f.input.Value(), f.candidates)
		f.cursor = 0
		f.top = 0
	}
	return cmd
}

func (f *Finder) MoveUp() {
	if f.cursor > 0 {
		f.cursor--
	}
}

func (f *Finder) MoveDown() {
	if f.cursor < len(f.matches)-1 {
		f.cursor++
	}
}

// Selected returns the candidate under the cursor.
func (f *Finder) Selected() (library.Candidate, bool) {
	if f.cursor < 0 || f.cursor >= len(f.matches) {
		return library.Candidate{}, false
	}
	return f.matches[f.cursor].Candidate, true
}

// Render draws the input, a match count, and the visible window of the
// match list with the query hits highlighted.
func (f *Finder) Render(width, height int) string {
	var b strings.Builder
	b.WriteString(f.input.View())
	b.WriteString("\n")
	b.WriteString(f.styles.Muted.Render(fmt.Sprintf("  %d/%d", len(f.matches), len(f.candidates))))
	b.WriteString("\n")

	visible := height - 2
	if visible < 1 {
		return b.String()
	}
	f.scroll(visible)

	for i := f.top; i < len(f.matches) && i < f.top+visible; i++ {
		m := f.matches[i]
		name := truncate(m.Candidate.Name, width-4)
		indexes := m.Indexes
		if name != m.Candidate.Name {
			// Match offsets are byte positions in the full name;
			// they are meaningless once it is cut.
			indexes = nil
		}
		if i == f.cursor {
			b.WriteString(f.styles.Selected.Render("> "))
			b.WriteString(f.highlight(name, indexes, true))
		} else {
			b.WriteString("  ")
			b.WriteString(f.highlight(name, indexes, false))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// scroll keeps the cursor inside the visible window.
func (f *Finder) scroll(visible int) {
	if f.cursor < f.top {
		f.top = f.cursor
	}
	if f.cursor >= f.top+visible {
		f.top = f.cursor - visible + 1
	}
}

// highlight re-renders name with the matched bytes in the match style.
// Indexes are byte offsets into the untruncated name, as the matcher
// reports them.
func (f *Finder) highlight(name string, indexes []int, active bool) string {
	base := f.styles.Track
	if active {
		base = f.styles.Active
	}
	if len(indexes) == 0 {
		return base.Render(name)
	}

	hit := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range name {
		if hit[i] {
			b.WriteString(f.styles.Match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}
