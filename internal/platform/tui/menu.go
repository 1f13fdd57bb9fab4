package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/levels"
	"github.com/vovakirdan/cellmachine/internal/registry"
)

// LevelItem represents a selectable level in the menu.
type LevelItem struct {
	ID          string
	Title       string
	Description string
	Width       int
	Height      int
	Source      string // "builtin" or the file path

	level *levels.Level // Set for levels loaded from disk
}

// Load returns a fresh copy of the level.
func (it LevelItem) Load() (levels.Level, error) {
	if it.level != nil {
		return *it.level, nil
	}
	return registry.Create(it.ID)
}

// BuiltinItems lists the registered levels.
func BuiltinItems() []LevelItem {
	infos := registry.List()
	items := make([]LevelItem, 0, len(infos))
	for _, info := range infos {
		items = append(items, LevelItem{
			ID:          info.ID,
			Title:       info.Title,
			Description: info.Description,
			Width:       info.Width,
			Height:      info.Height,
			Source:      "builtin",
		})
	}
	return items
}

// FileItems lists levels loaded from a levels directory.
func FileItems(lvls []levels.Level) []LevelItem {
	items := make([]LevelItem, 0, len(lvls))
	for i := range lvls {
		lvl := lvls[i]
		items = append(items, LevelItem{
			ID:          lvl.ID,
			Title:       lvl.Title(),
			Description: lvl.Description,
			Width:       lvl.Width,
			Height:      lvl.Height,
			Source:      lvl.FilePath,
			level:       &lvl,
		})
	}
	return items
}

// MenuKeyMap defines the key bindings for the level picker.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Runs   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Runs, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Back}}
}

// DefaultMenuKeyMap returns default level picker bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k", "w"), key.WithHelp("up/k", "prev")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "s"), key.WithHelp("down/j", "next")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "watch")),
		Runs:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "runs")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	items  []LevelItem
	cursor int
	offset int // First visible item
	config core.RuntimeConfig
	keys   MenuKeyMap
	help   help.Model

	selected *LevelItem
	openRuns bool
	quitting bool
}

// NewMenuModel creates a new level picker over items.
func NewMenuModel(items []LevelItem, cfg core.RuntimeConfig) MenuModel {
	h := help.New()
	h.Width = cfg.ScreenW
	return MenuModel{
		items:  items,
		config: cfg,
		keys:   DefaultMenuKeyMap(),
		help:   h,
	}
}

// Init implements tea.Model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.follow()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Runs):
			m.openRuns = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			if len(m.items) == 0 {
				return m, nil
			}
			item := m.items[m.cursor]
			m.selected = &item
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.move(1)
		}
	}
	return m, nil
}

func (m *MenuModel) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = core.Clamp(m.cursor+delta, 0, len(m.items)-1)
	m.follow()
}

// rows is the number of list lines that fit between header and footer.
func (m MenuModel) rows() int {
	return max(3, m.config.ScreenH-10)
}

// follow scrolls the list so the cursor stays visible.
func (m *MenuModel) follow() {
	rows := m.rows()
	switch {
	case m.cursor < m.offset:
		m.offset = m.cursor
	case m.cursor >= m.offset+rows:
		m.offset = m.cursor - rows + 1
	}
}

func (m MenuModel) itemLine(i int) string {
	it := m.items[i]
	marker, style := "  ", theme.MenuItemNormal
	if i == m.cursor {
		marker, style = "> ", theme.MenuItemActive
	}
	size := theme.MenuSource.Render(fmt.Sprintf(" %dx%d", it.Width, it.Height))
	return style.Render(fmt.Sprintf("%s%-24s", marker, it.Title)) + size
}

// View implements tea.Model.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	dim := theme.MenuDescription.Render
	lines := []string{
		"",
		theme.MenuTitle.Render("C E L L   M A C H I N E"),
		"",
		dim("Select a level"),
		"",
	}

	end := min(len(m.items), m.offset+m.rows())
	switch {
	case len(m.items) == 0:
		lines = append(lines, dim("No levels found"))
	case m.offset > 0:
		lines = append(lines, dim("... more above ..."))
	}
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.itemLine(i))
	}
	if end < len(m.items) {
		lines = append(lines, dim("... more below ..."))
	}

	lines = append(lines, "")
	if len(m.items) > 0 {
		it := m.items[m.cursor]
		desc := it.Description
		if desc == "" {
			desc = it.Source
		}
		lines = append(lines, dim(desc))
	}
	lines = append(lines, "", m.help.View(m.keys))

	var b strings.Builder
	for _, l := range lines {
		if l != "" {
			b.WriteString(centerText(l, m.config.ScreenW))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Selected returns the chosen level, or nil.
func (m MenuModel) Selected() *LevelItem {
	return m.selected
}

// IsQuitting reports whether the user left the picker.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRuns reports whether the user asked for the run history.
func (m MenuModel) WantsRuns() bool {
	return m.openRuns
}

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult is the outcome of RunMenu. At most one of Item, WantsRuns and Quit is set.
type MenuResult struct {
	Item      *LevelItem
	Config    core.RuntimeConfig
	WantsRuns bool
	Quit      bool
}

// RunMenu shows the level picker in the local terminal.
func RunMenu(items []LevelItem, cfg core.RuntimeConfig) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(items, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	res := MenuResult{Config: m.config, Item: m.selected, WantsRuns: m.openRuns}
	if res.WantsRuns {
		res.Item = nil
	}
	res.Quit = res.Item == nil && !res.WantsRuns
	return res, nil
}
