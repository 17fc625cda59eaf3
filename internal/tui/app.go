// Package tui implements the terminal player: a bubbletea program
// polling the playback controller on a fixed tick and dispatching keys
// through the configured keymap.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/strum/internal/config"
	"github.com/tessro/strum/internal/library"
	"github.com/tessro/strum/internal/player"
	"github.com/tessro/strum/internal/session"
	"github.com/tessro/strum/internal/tui/components"
	"github.com/tessro/strum/internal/tui/styles"
)

// Panel identifies the active screen.
type Panel int

const (
	PanelPlayer Panel = iota
	PanelFinder
	PanelHelp
)

const (
	// tickInterval drives controller polling and the clock redraw.
	tickInterval = 100 * time.Millisecond
	// volumeOverlay is how long the volume cell stays up after a
	// volume key.
	volumeOverlay = 1500 * time.Millisecond
	// errorOverlay is how long a transient error replaces the
	// progress row.
	errorOverlay = 5 * time.Second
)

// App bundles what the program needs from the command layer.
type App struct {
	Ctx        *session.Context
	Keymap     *config.Keymap
	Candidates []library.Candidate
	Styles     styles.Styles
	// Storage receives the session snapshot on quit; nil disables
	// persistence.
	Storage *session.Storage
	// ShowVolume restores the persisted volume-cell toggle.
	ShowVolume bool
}

// Model is the bubbletea model. All controller access happens here, on
// the update goroutine.
type Model struct {
	app *App

	width  int
	height int
	panel  Panel

	playerView *components.PlayerView
	finder     *components.Finder
	help       *components.Help

	showVolume   bool
	volumeTapped time.Time

	lastError   string
	errorExpiry time.Time

	quitting bool
}

// NewModel creates the program model.
func NewModel(app *App) Model {
	return Model{
		app:        app,
		panel:      PanelPlayer,
		playerView: components.NewPlayerView(app.Styles),
		finder:     components.NewFinder(app.Styles, app.Candidates),
		help:       components.NewHelp(app.Styles, app.Keymap),
		showVolume: app.ShowVolume,
	}
}

// Messages
type tickMsg time.Time

func (m Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if p := m.app.Ctx.Player; p != nil {
			if err := p.Poll(); err != nil {
				m.setError(err)
			}
			if err := m.app.Ctx.Advance(); err != nil {
				m.setError(err)
			}
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	// Everything else feeds the finder input while it is open, so the
	// cursor keeps blinking.
	if m.panel == PanelFinder {
		return m, m.finder.Update(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.panel {
	case PanelHelp:
		return m.handleHelpKey(msg)
	case PanelFinder:
		return m.handleFinderKey(msg)
	}
	return m.handlePlayerKey(msg)
}

// handleHelpKey closes the help screen; the help and quit bindings
// close it too, so the key that opened it also dismisses it.
func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		m.panel = PanelPlayer
		return m, nil
	}
	if action, ok := m.app.Keymap.Lookup(key); ok {
		switch action {
		case config.ActionHelp, config.ActionQuit:
			m.panel = PanelPlayer
		}
	}
	return m, nil
}

func (m Model) handleFinderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab":
		m.finder.Close()
		m.panel = PanelPlayer
		return m, nil
	case "enter":
		cand, ok := m.finder.Selected()
		m.finder.Close()
		m.panel = PanelPlayer
		if ok {
			if err := m.app.Ctx.Fuzzy(cand.Path); err != nil {
				m.setError(err)
			}
		}
		return m, nil
	case "up", "ctrl+p":
		m.finder.MoveUp()
		return m, nil
	case "down", "ctrl+n":
		m.finder.MoveDown()
		return m, nil
	}
	return m, m.finder.Update(msg)
}

func (m Model) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.app.Ctx.Player
	if p == nil {
		return m, nil
	}
	key := msg.String()

	// Fixed keys first: digits, the finder, and esc. These are not
	// rebindable, like the digit row on a numeric pad.
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		p.PushDigit(int(key[0] - '0'))
		return m, nil
	}
	switch key {
	case "tab", "/":
		m.panel = PanelFinder
		m.playerView.ClearSelection()
		return m, m.finder.Open()
	case "esc":
		p.ClearDigits()
		m.playerView.ClearSelection()
		return m, nil
	}

	action, ok := m.app.Keymap.Lookup(key)
	if !ok {
		return m, nil
	}
	// A consumed key invalidates any armed mouse selection.
	m.playerView.ClearSelection()
	return m.apply(action)
}

// apply runs a keymap action against the live controller.
func (m Model) apply(action config.Action) (tea.Model, tea.Cmd) {
	ctx := m.app.Ctx
	p := ctx.Player

	var err error
	switch action {
	case config.ActionPlayPause:
		err = p.PlayOrPause()
	case config.ActionStop:
		p.Stop()
	case config.ActionNext:
		if p.Mode() == player.Randomized {
			err = ctx.Random(session.RandomTrack)
		} else {
			err = p.Next()
		}
	case config.ActionPrevious:
		if p.Mode() == player.Randomized {
			err = ctx.Previous(session.PreviousTrack)
		} else {
			err = p.Previous()
		}
	case config.ActionPreviousAlbum:
		err = ctx.Previous(session.PreviousAlbum)
	case config.ActionRandomAlbum:
		err = ctx.Random(session.RandomAlbum)
	case config.ActionVolumeUp:
		p.VolumeUp()
		m.volumeTapped = time.Now()
	case config.ActionVolumeDown:
		p.VolumeDown()
		m.volumeTapped = time.Now()
	case config.ActionMute:
		p.ToggleMute()
		m.volumeTapped = time.Now()
	case config.ActionShowVolume:
		m.showVolume = !m.showVolume
	case config.ActionSeekForward:
		err = p.StepForward()
	case config.ActionSeekBackward:
		err = p.StepBackward()
	case config.ActionSeekToSec:
		err = p.SeekToSec()
	case config.ActionSeekToMin:
		err = p.SeekToMin()
	case config.ActionRandomize:
		// Nothing to randomize over: a single track and nowhere to
		// jump.
		if len(p.State().Tracks) >= 2 || len(ctx.Paths()) >= 2 {
			ctx.ToggleRandomize()
		}
	case config.ActionShuffle:
		ctx.ToggleShuffle()
	case config.ActionPlaySelection:
		err = p.PlayKeySelection()
	case config.ActionLastTrack:
		err = p.PlayLastTrack()
	case config.ActionHelp:
		m.panel = PanelHelp
	case config.ActionQuit:
		return m.quit()
	}

	if err != nil {
		m.setError(err)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.panel != PanelPlayer || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	p := m.app.Ctx.Player
	if p == nil {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		click, index := m.playerView.Click(msg.Y, m.height, p.State(), time.Now())
		var err error
		switch click {
		case components.ClickToggle:
			err = p.PlayOrPause()
		case components.ClickPlay:
			err = p.PlayIndex(index)
		}
		if err != nil {
			m.setError(err)
		}
	case tea.MouseButtonRight:
		p.Stop()
	case tea.MouseButtonWheelDown:
		return m.apply(config.ActionNext)
	case tea.MouseButtonWheelUp:
		return m.apply(config.ActionPrevious)
	}
	return m, nil
}

// quit snapshots the session, releases the controller and exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.app.Storage != nil && m.app.Ctx.Player != nil {
		snap := m.app.Ctx.Snapshot()
		snap.Options.ShowingVolume = m.showVolume
		if err := m.app.Storage.Save(snap); err != nil {
			m.setError(err)
		}
	}
	m.app.Ctx.Close()
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) setError(err error) {
	m.lastError = err.Error()
	m.errorExpiry = time.Now().Add(errorOverlay)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	switch m.panel {
	case PanelFinder:
		return m.finder.Render(m.width, m.height)
	case PanelHelp:
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.app.Styles.Border.Render(m.help.Render()))
	}

	p := m.app.Ctx.Player
	if p == nil {
		return "Loading..."
	}

	now := time.Now()
	status := ""
	if m.lastError != "" && now.Before(m.errorExpiry) {
		status = m.lastError
	}
	showVolume := m.showVolume || now.Before(m.volumeTapped.Add(volumeOverlay))

	return m.playerView.Render(p.State(), showVolume, status, m.width, m.height)
}

// Run starts the program in the alternate screen with mouse reporting.
func Run(app *App) error {
	p := tea.NewProgram(NewModel(app), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
