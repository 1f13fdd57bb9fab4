// Package term provides a tcell frontend for the cell machine.
// It draws the same screen buffer as the Bubble Tea viewer straight to the
// terminal, which keeps redraws cheap on large grids.
package term

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/levels"
	"github.com/vovakirdan/cellmachine/internal/render"
	"github.com/vovakirdan/cellmachine/internal/runner"
	"github.com/vovakirdan/cellmachine/internal/storage"
)

const controls = "space pause  . step  +/- speed  r restart  arrows scroll  q quit"

// Options configures a Viewer.
type Options struct {
	Config   core.RuntimeConfig // ScreenW and ScreenH are taken from the screen
	Renderer *render.Renderer
	Store    *storage.Store // Optional; the run is recorded when set
	Paused   bool
	Logger   *log.Logger
	Tracer   trace.Tracer
}

// Viewer runs a level on a tcell screen.
type Viewer struct {
	screen   tcell.Screen
	level    levels.Level
	runner   *runner.Runner
	opts     Options
	buf      *core.Screen
	frame    runner.Frame
	viewport render.Viewport
	notice   string

	started    time.Time
	startCells int
}

// New creates a viewer for lvl on an initialized screen.
// The caller keeps ownership of the screen.
func New(screen tcell.Screen, lvl levels.Level, opts Options) (*Viewer, error) {
	g, err := lvl.ToGrid()
	if err != nil {
		return nil, err
	}
	if opts.Renderer == nil {
		opts.Renderer = render.New(render.Unicode, nil)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	w, h := screen.Size()
	opts.Config.ScreenW, opts.Config.ScreenH = w, h

	r := runner.New(g, runner.Options{
		Sleep:  opts.Config.Sleep,
		Nerd:   opts.Config.Nerd,
		Paused: opts.Paused,
		Logger: opts.Logger,
		Tracer: opts.Tracer,
	})

	return &Viewer{
		screen:     screen,
		level:      lvl,
		runner:     r,
		opts:       opts,
		buf:        core.NewScreen(w, h),
		frame:      r.Snapshot(),
		started:    time.Now(),
		startCells: g.Count(),
	}, nil
}

// Run shows the level until the user quits or ctx is cancelled.
// The run is recorded in the store when at least one tick happened.
func (v *Viewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- v.runner.Run(ctx)
	}()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go v.screen.ChannelEvents(events, quit)
	defer close(quit)

	frames := v.runner.Snapshots()
	v.draw()

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop

		case f, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			v.frame = f
			v.draw()

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if v.handleEvent(ev) {
				break loop
			}
			v.draw()

		case runErr = <-done:
			done = nil
			if runErr != nil {
				v.opts.Logger.Error("simulation stopped", "level", v.level.ID, "error", runErr)
			}
		}
	}

	cancel()
	if done != nil {
		runErr = <-done
	}
	v.record()
	return runErr
}

// handleEvent applies one terminal event. Returns true when the viewer should close.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		v.opts.Config.ScreenW, v.opts.Config.ScreenH = w, h
		v.buf.Resize(w, h)
		v.screen.Sync()

	case *tcell.EventKey:
		return v.handleAction(MapKey(ev))
	}
	return false
}

func (v *Viewer) handleAction(a core.Action) bool {
	switch a {
	case core.ActionQuit, core.ActionBack:
		return true
	case core.ActionUp:
		v.viewport.Y--
	case core.ActionDown:
		v.viewport.Y++
	case core.ActionLeft:
		v.viewport.X--
	case core.ActionRight:
		v.viewport.X++
	default:
		handled, err := v.runner.Apply(a, v.level.ToGrid)
		if err != nil {
			v.notice = err.Error()
		} else if handled {
			v.notice = ""
		}
		if handled {
			v.frame.State = v.runner.Stats()
		}
	}
	if v.frame.Grid != nil {
		v.viewport = render.ClampViewport(v.viewport, v.frame.Grid, v.gridArea())
	}
	return false
}

// gridArea is the region between the HUD row and the footer line.
func (v *Viewer) gridArea() core.Rect {
	top := 0
	if v.opts.Config.HUD {
		top = 1
	}
	return core.NewRect(0, top, v.opts.Config.ScreenW, max(0, v.opts.Config.ScreenH-top-1))
}

func (v *Viewer) draw() {
	start := time.Now()
	v.buf.Clear()

	if g := v.frame.Grid; g != nil {
		area := v.gridArea()
		vp := render.ClampViewport(v.viewport, g, area)
		v.opts.Renderer.Draw(v.buf, area, g, vp)
	}

	if v.opts.Config.HUD {
		color := core.ColorHUD
		if v.frame.State.Paused {
			color = core.ColorPaused
		}
		v.buf.DrawTextColored(0, 0, render.HUD(v.frame.State), color)
	}

	footer := v.level.Title() + "  " + controls
	color := core.ColorHUD
	if v.notice != "" {
		footer, color = v.notice, core.ColorPaused
	}
	v.buf.DrawTextColored(0, v.buf.Height()-1, footer, color)

	flush(v.screen, v.buf)
	v.runner.ReportRender(time.Since(start))
}

func (v *Viewer) record() {
	st := v.runner.Stats()
	v.opts.Logger.Debug("viewer closed", "level", v.level.ID, "ticks", st.Tick)
	if v.opts.Store == nil || st.Tick == 0 {
		return
	}
	_, err := v.opts.Store.SaveRun(storage.Run{
		LevelID:    v.level.ID,
		Ticks:      st.Tick,
		TPS:        st.TPS,
		Duration:   time.Since(v.started),
		StartCells: v.startCells,
		EndCells:   st.Cells,
		Backend:    "tcell",
	})
	if err != nil {
		v.opts.Logger.Warn("could not save run", "level", v.level.ID, "error", err)
	}
}

// Play opens the terminal, runs lvl and restores the terminal on return.
func Play(ctx context.Context, lvl levels.Level, opts Options) error {
	screen, err := NewScreen()
	if err != nil {
		return err
	}
	defer screen.Fini()

	v, err := New(screen, lvl, opts)
	if err != nil {
		return err
	}
	return v.Run(ctx)
}
