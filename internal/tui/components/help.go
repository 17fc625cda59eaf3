package components

import (
	"fmt"
	"strings"

	"github.com/tessro/strum/internal/config"
	"github.com/tessro/strum/internal/tui/styles"
)

// Help renders the binding table for the active keymap.
type Help struct {
	styles styles.Styles
	keymap *config.Keymap
}

// NewHelp creates the help component over a resolved keymap.
func NewHelp(s styles.Styles, keymap *config.Keymap) *Help {
	return &Help{styles: s, keymap: keymap}
}

// binding is one help row: the key column and its description.
type binding struct {
	keys string
	desc string
}

// rows builds the table: the configured actions in help order, then
// the fixed keys the keymap cannot rebind.
func (h *Help) rows() []binding {
	rows := make([]binding, 0, len(config.HelpOrder)+3)
	for _, action := range config.HelpOrder {
		keys := h.keymap.Keys(action)
		if len(keys) == 0 {
			continue
		}
		rows = append(rows, binding{
			keys: strings.Join(keys, ", "),
			desc: config.Describe(action),
		})
	}
	rows = append(rows,
		binding{keys: "0-9", desc: "type a track number"},
		binding{keys: "tab, /", desc: "find album"},
		binding{keys: "esc", desc: "close this screen"},
	)
	return rows
}

// Render draws the two-column table with a title rule on top.
func (h *Help) Render() string {
	rows := h.rows()

	keyWidth := 0
	for _, r := range rows {
		if n := len(r.keys); n > keyWidth {
			keyWidth = n
		}
	}

	var b strings.Builder
	title := "Keys"
	b.WriteString(h.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(h.styles.Muted.Render(strings.Repeat("─", keyWidth+24)))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(h.styles.Active.Render(fmt.Sprintf("%-*s", keyWidth, r.keys)))
		b.WriteString("  ")
		b.WriteString(h.styles.Track.Render(r.desc))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
