package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/levels"
	"github.com/vovakirdan/cellmachine/internal/machine"
	"github.com/vovakirdan/cellmachine/internal/render"
	"github.com/vovakirdan/cellmachine/internal/runner"
	"github.com/vovakirdan/cellmachine/internal/storage"
)

// ViewerOptions configures a ViewerModel.
type ViewerOptions struct {
	Context  context.Context // Stops the simulation when done; Background when nil
	Config   core.RuntimeConfig
	Renderer *render.Renderer
	Store    *storage.Store // Optional; runs are recorded when set
	Backend  string         // Recorded with each run
	Paused   bool
	Embedded bool // Back returns to the caller instead of quitting
	Logger   *log.Logger
	Tracer   trace.Tracer
}

// ViewerModel is the Bubble Tea model that displays a running level.
type ViewerModel struct {
	level    levels.Level
	runner   *runner.Runner
	ctx      context.Context
	cancel   context.CancelFunc
	opts     ViewerOptions
	screen   *core.Screen
	config   core.RuntimeConfig
	frame    runner.Frame
	viewport render.Viewport

	keyMapper *KeyMapper
	help      help.Model

	started    time.Time
	startCells int
	notice     string

	quitting   bool
	backToMenu bool
	finished   bool
}

// NewViewerModel creates a viewer for the level. The simulation starts on Init.
func NewViewerModel(lvl levels.Level, opts ViewerOptions) (ViewerModel, error) {
	g, err := lvl.ToGrid()
	if err != nil {
		return ViewerModel{}, err
	}
	if opts.Renderer == nil {
		opts.Renderer = render.New(render.Unicode, nil)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Config.ScreenW == 0 || opts.Config.ScreenH == 0 {
		cfg := core.DefaultConfig()
		cfg.Sleep, cfg.Nerd, cfg.HUD = opts.Config.Sleep, opts.Config.Nerd, opts.Config.HUD
		opts.Config = cfg
	}

	r := runner.New(g, runner.Options{
		Sleep:  opts.Config.Sleep,
		Nerd:   opts.Config.Nerd,
		Paused: opts.Paused,
		Logger: opts.Logger,
		Tracer: opts.Tracer,
	})

	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	h := help.New()
	h.ShowAll = false

	return ViewerModel{
		level:      lvl,
		runner:     r,
		ctx:        ctx,
		cancel:     cancel,
		opts:       opts,
		screen:     core.NewScreen(opts.Config.ScreenW, opts.Config.ScreenH),
		config:     opts.Config,
		frame:      r.Snapshot(),
		keyMapper:  NewKeyMapper(),
		help:       h,
		started:    time.Now(),
		startCells: g.Count(),
	}, nil
}

// Init starts the simulation goroutine and waits for the first frame.
func (m ViewerModel) Init() tea.Cmd {
	return tea.Batch(
		runCmd(m.ctx, m.runner),
		waitFrame(m.runner),
	)
}

// Update handles messages and updates the model state.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		// Frames from a runner this viewer replaced are dropped.
		if msg.source != m.runner {
			return m, nil
		}
		m.frame = msg.Frame
		return m, waitFrame(m.runner)

	case runDoneMsg:
		if msg.source == m.runner && msg.err != nil {
			m.opts.Logger.Error("simulation stopped", "level", m.level.ID, "error", msg.err)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keyMapper.MapKey(msg)
	switch action {
	case core.ActionQuit:
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.finish()
		if m.opts.Embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case core.ActionUp:
		m.viewport.Y--
	case core.ActionDown:
		m.viewport.Y++
	case core.ActionLeft:
		m.viewport.X--
	case core.ActionRight:
		m.viewport.X++

	default:
		handled, err := m.runner.Apply(action, m.level.ToGrid)
		if err != nil {
			m.notice = err.Error()
		} else if handled {
			m.notice = ""
		}
		if handled {
			// Pause and speed changes show up before the next tick.
			m.frame.State = m.runner.Stats()
		}
	}

	if m.frame.Grid != nil {
		m.viewport = render.ClampViewport(m.viewport, m.frame.Grid, m.gridArea())
	}
	return m, nil
}

// gridArea returns the screen region used by the grid, below the HUD row
// and above the help line.
func (m ViewerModel) gridArea() core.Rect {
	top := 0
	if m.config.HUD {
		top = 1
	}
	h := m.config.ScreenH - top - 1
	if h < 0 {
		h = 0
	}
	return core.NewRect(0, top, m.config.ScreenW, h)
}

// finish stops the simulation and records the run once.
func (m *ViewerModel) finish() {
	if m.finished {
		return
	}
	m.finished = true
	m.cancel()

	st := m.runner.Stats()
	m.opts.Logger.Debug("viewer closed", "level", m.level.ID, "ticks", st.Tick)

	if m.opts.Store == nil || st.Tick == 0 {
		return
	}
	_, err := m.opts.Store.SaveRun(storage.Run{
		LevelID:    m.level.ID,
		Ticks:      st.Tick,
		TPS:        st.TPS,
		Duration:   time.Since(m.started),
		StartCells: m.startCells,
		EndCells:   st.Cells,
		Backend:    m.opts.Backend,
	})
	if err != nil {
		m.opts.Logger.Warn("could not save run", "level", m.level.ID, "error", err)
	}
}

// View renders the current state to a string for display.
func (m ViewerModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	start := time.Now()
	m.screen.Clear()

	if g := m.frame.Grid; g != nil {
		area := m.gridArea()
		vp := render.ClampViewport(m.viewport, g, area)
		m.opts.Renderer.Draw(m.screen, area, g, vp)
	}

	if m.config.HUD {
		st := m.frame.State
		color := core.ColorHUD
		if st.Paused {
			color = core.ColorPaused
		}
		m.screen.DrawTextColored(0, 0, render.HUD(st), color)
	}

	out := RenderScreen(m.screen) + "\n" + m.footer()

	m.runner.ReportRender(time.Since(start))
	return out
}

func (m ViewerModel) footer() string {
	if m.notice != "" {
		return theme.HUDError.Render(m.notice)
	}
	return theme.HUDControls.Render(m.level.Title() + "  " + m.help.View(m.keyMapper.Keys()))
}

// IsQuitting returns true if user requested to quit entirely.
func (m ViewerModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m ViewerModel) BackToMenu() bool {
	return m.backToMenu
}

// Grid returns the most recent snapshot, or nil before the first frame.
func (m ViewerModel) Grid() *machine.Grid {
	return m.frame.Grid
}

// Stats returns the latest simulation statistics.
func (m ViewerModel) Stats() core.SimState {
	return m.frame.State
}

// Run starts the Bubble Tea program for the level and blocks until the viewer exits.
func Run(lvl levels.Level, opts ViewerOptions) error {
	model, err := NewViewerModel(lvl, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if vm, ok := final.(ViewerModel); ok {
		vm.finish()
	}
	return err
}
