package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cellmachine/internal/storage"
)

const (
	minWidthForStats = 100 // Narrower terminals hide the per-level panel
	statsPanelWidth  = 24
	maxRuns          = 100
)

// allLevels is the pseudo level that lists every run.
const allLevels = ""

// RunsKeyMap defines the key bindings for the run history board.
type RunsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Prev key.Binding
	Next key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Prev: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev level")),
		Next: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l/tab", "next level")),
		Back: key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("b", "back")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// RunsModel is the Bubble Tea model for the run history board.
// The left panel lists levels with their totals; the table shows the
// recent runs of the selected level.
type RunsModel struct {
	store   *storage.Store
	stats   map[string]*storage.LevelStats
	levels  []string // allLevels first, then every level with a recorded run
	current int

	runs    []storage.Run
	loadErr error

	table table.Model
	help  help.Model
	keys  RunsKeyMap

	width, height int
	quitting      bool
	goingBack     bool
}

// NewRunsModel creates a run board sized to width x height.
func NewRunsModel(store *storage.Store, width, height int) RunsModel {
	m := RunsModel{
		store:  store,
		levels: []string{allLevels},
		help:   help.New(),
		keys:   DefaultRunsKeyMap(),
		width:  width,
		height: height,
	}

	if store != nil {
		stats, err := store.AllLevelStats()
		if err != nil {
			m.loadErr = err
		}
		m.stats = stats
		ids := make([]string, 0, len(stats))
		for id := range stats {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		m.levels = append(m.levels, ids...)
	}

	m.table = newRunsTable(m.tableWidth(), m.height)
	m.reload()
	return m
}

func (m RunsModel) showStats() bool {
	return m.width >= minWidthForStats
}

func (m RunsModel) tableWidth() int {
	w := m.width - 4
	if m.showStats() {
		w -= statsPanelWidth + 4
	}
	return w
}

// newRunsTable builds the table; the level column takes spare width up to ten columns.
func newRunsTable(width, height int) table.Model {
	cols := []table.Column{
		{Title: "Level", Width: 14},
		{Title: "Ticks", Width: 8},
		{Title: "TPS", Width: 6},
		{Title: "Time", Width: 8},
		{Title: "Cells", Width: 9},
		{Title: "Via", Width: 8},
		{Title: "Date", Width: 12},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2 // Cell padding
	}
	if spare := width - used; spare > 0 {
		cols[0].Width += min(spare, 10)
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(max(3, height-8)),
	)
	styles := table.DefaultStyles()
	styles.Header = theme.RunsHeader
	styles.Selected = theme.RunsSelected
	t.SetStyles(styles)
	return t
}

func (m RunsModel) currentLevel() string {
	return m.levels[m.current]
}

// reload fetches the runs of the current level into the table.
func (m *RunsModel) reload() {
	m.runs = nil
	if m.store != nil {
		m.runs, m.loadErr = m.store.RecentRuns(m.currentLevel(), maxRuns)
	}

	rows := make([]table.Row, 0, len(m.runs))
	for _, r := range m.runs {
		rows = append(rows, runRow(r))
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func runRow(r storage.Run) table.Row {
	return table.Row{
		r.LevelID,
		strconv.FormatUint(r.Ticks, 10),
		strconv.Itoa(r.TPS),
		r.Duration.Round(100 * time.Millisecond).String(),
		fmt.Sprintf("%d>%d", r.StartCells, r.EndCells),
		r.Backend,
		r.CreatedAt.Format("Jan 02 15:04"),
	}
}

// step moves the level selection by delta, wrapping at both ends.
func (m *RunsModel) step(delta int) {
	n := len(m.levels)
	m.current = ((m.current+delta)%n + n) % n
	m.reload()
}

// Init initializes the run board model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the run board.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = newRunsTable(m.tableWidth(), m.height)
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func levelLabel(id string) string {
	if id == allLevels {
		return "All levels"
	}
	return id
}

// View renders the run board.
func (m RunsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := theme.RunsTitle.Render(centerText("RUNS - "+levelLabel(m.currentLevel()), m.width))

	var body string
	if m.showStats() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.statsPanel(), "  ", m.tablePanel())
	} else {
		body = centerText("< "+levelLabel(m.currentLevel())+" >", m.width) + "\n\n" +
			centerText(m.tablePanel(), m.width)
	}

	return title + "\n\n" + body + "\n" + theme.HUDControls.Render(m.help.View(m.keys))
}

// statsPanel lists the levels with their run count and best rate.
func (m RunsModel) statsPanel() string {
	var b strings.Builder
	b.WriteString("Levels\n\n")
	for i, id := range m.levels {
		marker, style := "  ", theme.MenuItemNormal
		if i == m.current {
			marker, style = "> ", theme.MenuItemActive
		}
		b.WriteString(style.Render(marker + truncate(levelLabel(id), statsPanelWidth-4)))
		b.WriteString("\n")
		if st := m.stats[id]; st != nil {
			b.WriteString(theme.MenuSource.Render(fmt.Sprintf("  %d runs, best %d", st.Runs, st.BestTPS)))
			b.WriteString("\n")
		}
	}
	return theme.RunsPanel.Width(statsPanelWidth).Render(b.String())
}

func (m RunsModel) tablePanel() string {
	var content string
	switch {
	case m.store == nil:
		content = theme.RunsEmpty.Render("Run history is unavailable.\nNo database is open.")
	case m.loadErr != nil:
		content = theme.RunsEmpty.Render("Could not load runs:\n" + m.loadErr.Error())
	case len(m.runs) == 0:
		content = theme.RunsEmpty.Render("No runs recorded yet.\nPlay a level to record one!")
	default:
		content = m.table.View()
	}
	return theme.RunsPanel.Render(content)
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:max(0, n-1)]) + "…"
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RunsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RunsModel) IsQuitting() bool {
	return m.quitting
}

// RunRunsBoard shows the run history until the user leaves.
// goBack is true when the user asked to return to the menu.
func RunRunsBoard(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewRunsModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(RunsModel)
	return ok && m.IsGoingBack(), nil
}
