package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/storage"
)

// sessionScreen identifies what a session is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenViewer
	screenRuns
)

// SessionModel manages the full session flow: menu -> viewer -> menu.
// It is the top-level model for SSH sessions and the local menu command.
type SessionModel struct {
	items    []LevelItem
	store    *storage.Store
	config   core.RuntimeConfig
	opts     ViewerOptions
	screen   sessionScreen
	menu     MenuModel
	viewer   *ViewerModel
	runs     RunsModel
	notice   string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(items []LevelItem, store *storage.Store, cfg core.RuntimeConfig, opts ViewerOptions) SessionModel {
	opts.Embedded = true
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return SessionModel{
		items:  items,
		store:  store,
		config: cfg,
		opts:   opts,
		menu:   NewMenuModel(items, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenViewer:
		return m.updateViewer(msg)
	case screenRuns:
		return m.updateRuns(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
// Every menu exit is handled before its tea.Quit would reach the program.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsRuns():
		m.runs = NewRunsModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenRuns
		return m, m.runs.Init()

	case m.menu.Selected() != nil:
		return m.start(*m.menu.Selected())
	}

	return m, cmd
}

// start opens the viewer on item, or returns to the menu with a notice
// when the level cannot be built.
func (m SessionModel) start(item LevelItem) (tea.Model, tea.Cmd) {
	viewer, err := m.newViewer(item)
	if err != nil {
		m.opts.Logger.Warn("could not start level", "level", item.ID, "error", err)
		m.notice = err.Error()
		m.resetMenu()
		return m, nil
	}
	m.viewer, m.screen, m.notice = &viewer, screenViewer, ""
	return m, viewer.Init()
}

func (m SessionModel) newViewer(item LevelItem) (ViewerModel, error) {
	lvl, err := item.Load()
	if err != nil {
		return ViewerModel{}, err
	}
	opts := m.opts
	opts.Config = m.config
	return NewViewerModel(lvl, opts)
}

// updateViewer handles updates when a level is running.
func (m SessionModel) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.viewer.Update(msg)
	if viewer, ok := newModel.(ViewerModel); ok {
		m.viewer = &viewer
	}

	if m.viewer.BackToMenu() {
		m.viewer = nil
		m.resetMenu()
		return m, m.menu.Init()
	}

	if m.viewer.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateRuns handles updates when the run board is open.
func (m SessionModel) updateRuns(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.runs.Update(msg)
	if runs, ok := newModel.(RunsModel); ok {
		m.runs = runs
	}

	if m.runs.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.runs.IsGoingBack() {
		m.resetMenu()
		return m, nil
	}
	return m, cmd
}

func (m *SessionModel) resetMenu() {
	cursor := m.menu.cursor
	m.menu = NewMenuModel(m.items, m.config)
	m.menu.cursor = min(cursor, max(0, len(m.items)-1))
	m.menu.follow()
	m.screen = screenMenu
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenViewer:
		if m.viewer != nil {
			return m.viewer.View()
		}
	case screenRuns:
		return m.runs.View()
	}

	view := m.menu.View()
	if m.notice != "" {
		view += "\n" + centerText(theme.HUDError.Render(m.notice), m.config.ScreenW)
	}
	return view
}

// RunSession runs a full menu session in the local terminal.
func RunSession(items []LevelItem, store *storage.Store, cfg core.RuntimeConfig, opts ViewerOptions) error {
	p := tea.NewProgram(
		NewSessionModel(items, store, cfg, opts),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if sm, ok := final.(SessionModel); ok && sm.viewer != nil {
		sm.viewer.finish()
	}
	return err
}
