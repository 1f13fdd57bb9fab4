// Package runner drives a grid on its own goroutine and publishes snapshots.
//
// The runner owns the live grid. Frontends never touch it: each tick they
// receive a deep copy through Snapshots, so rendering can run concurrently
// with the simulation. Stopping is cooperative; the loop checks its context
// between ticks and never abandons a tick half way.
package runner

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/machine"
	"github.com/vovakirdan/cellmachine/internal/telemetry"
)

// Frame is a snapshot published after a tick. The grid is a private copy.
type Frame struct {
	Grid  *machine.Grid
	State core.SimState
}

// Options configures a Runner.
type Options struct {
	Sleep    time.Duration   // Wait between ticks
	Nerd     bool            // Subtract render and update time from Sleep
	MaxTicks uint64          // Stop after this many ticks; 0 runs until cancelled
	Paused   bool            // Start paused
	Engine   machine.Options // Passed to machine.UpdateWith

	// OnTick, when set, is called synchronously on the runner goroutine with every frame.
	// Slow callbacks slow the simulation down.
	OnTick func(Frame)

	Logger *log.Logger
	Tracer trace.Tracer
}

// Runner ticks a grid until stopped.
type Runner struct {
	mu     sync.Mutex
	grid   *machine.Grid
	opts   Options
	state  core.SimState
	steps  int
	render time.Duration
	reset  bool

	frames chan Frame
	wake   chan struct{}
}

// New creates a runner for g. The runner takes ownership of g.
func New(g *machine.Grid, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Tracer == nil {
		opts.Tracer = telemetry.NoopTracer()
	}
	r := &Runner{
		grid:   g,
		opts:   opts,
		frames: make(chan Frame, 1),
		wake:   make(chan struct{}, 1),
	}
	r.state = core.SimState{
		Tick:      g.TickCount(),
		Cells:     g.Count(),
		Paused:    opts.Paused,
		UserSleep: opts.Sleep,
		Sleep:     opts.Sleep,
		NerdSleep: opts.Sleep,
	}
	return r
}

// Snapshots returns the channel of published frames. Only the most recent
// frame is kept; a slow reader skips frames rather than stalling the loop.
// The channel is closed when Run returns.
func (r *Runner) Snapshots() <-chan Frame {
	return r.frames
}

// Stats returns the latest simulation statistics.
func (r *Runner) Stats() core.SimState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Snapshot returns a copy of the current grid with the latest statistics.
func (r *Runner) Snapshot() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Frame{Grid: r.grid.Clone(), State: r.state}
}

// SetPaused suspends or resumes ticking.
func (r *Runner) SetPaused(paused bool) {
	r.mu.Lock()
	r.state.Paused = paused
	r.mu.Unlock()
	r.signal()
}

// TogglePause flips the paused state and returns the new value.
func (r *Runner) TogglePause() bool {
	r.mu.Lock()
	r.state.Paused = !r.state.Paused
	paused := r.state.Paused
	r.mu.Unlock()
	r.signal()
	return paused
}

// Step requests a single tick while paused. It has no effect when running.
func (r *Runner) Step() {
	r.mu.Lock()
	if r.state.Paused {
		r.steps++
	}
	r.mu.Unlock()
	r.signal()
}

// SetSleep changes the wait between ticks.
func (r *Runner) SetSleep(d time.Duration) {
	if d < 0 {
		d = 0
	}
	r.mu.Lock()
	r.opts.Sleep = d
	r.state.UserSleep = d
	r.mu.Unlock()
}

// Sleep returns the configured wait between ticks.
func (r *Runner) Sleep() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts.Sleep
}

// ReportRender records how long the frontend took to draw its last frame.
// In nerd mode the next sleep is shortened by this amount.
func (r *Runner) ReportRender(d time.Duration) {
	r.mu.Lock()
	r.render = d
	r.mu.Unlock()
}

// Reset replaces the live grid, for restarting a level. Statistics restart
// from the new grid; pause state and sleep are kept.
func (r *Runner) Reset(g *machine.Grid) {
	r.mu.Lock()
	r.grid = g
	r.state.Tick = g.TickCount()
	r.state.Cells = g.Count()
	r.state.TPS = 0
	r.reset = true
	r.mu.Unlock()
	r.signal()
}

// Run ticks until ctx is cancelled or MaxTicks is reached.
// A cancelled context is a normal stop and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.frames)

	first := r.Snapshot()
	w, h := first.Grid.Width(), first.Grid.Height()

	ctx, span := r.opts.Tracer.Start(ctx, "runner.run", trace.WithAttributes(
		attribute.Int("grid.width", w),
		attribute.Int("grid.height", h),
		attribute.Int64("max_ticks", int64(r.opts.MaxTicks)),
	))
	defer span.End()

	logger := r.opts.Logger
	logger.Debug("run started", "width", w, "height", h, "max_ticks", r.opts.MaxTicks)

	r.publish(first)

	var ticks uint64
	counted := 0
	second := time.Now()

	for {
		if ctx.Err() != nil {
			span.SetAttributes(attribute.String("stop", "cancelled"))
			logger.Debug("run cancelled", "ticks", ticks)
			return nil
		}

		if time.Since(second) > time.Second {
			r.mu.Lock()
			r.state.TPS = counted
			r.mu.Unlock()
			counted = 0
			second = time.Now()
		}

		if r.takeReset() {
			r.publish(r.Snapshot())
		}

		if !r.takeTurn() {
			select {
			case <-ctx.Done():
			case <-r.wake:
			}
			continue
		}

		frame := r.tick(ctx)
		ticks++
		counted++

		if r.opts.OnTick != nil {
			r.opts.OnTick(frame)
		}
		r.publish(frame)

		if r.opts.MaxTicks > 0 && ticks >= r.opts.MaxTicks {
			span.SetAttributes(attribute.String("stop", "max_ticks"))
			logger.Debug("run finished", "ticks", ticks)
			return nil
		}

		if d := frame.State.Sleep; d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-r.wake:
				timer.Stop()
			case <-timer.C:
			}
		}
	}
}

func (r *Runner) takeReset() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	reset := r.reset
	r.reset = false
	return reset
}

// takeTurn reports whether the loop may tick now, consuming one pending step when paused.
func (r *Runner) takeTurn() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.Paused {
		return true
	}
	if r.steps > 0 {
		r.steps--
		return true
	}
	return false
}

func (r *Runner) tick(ctx context.Context) Frame {
	_, span := r.opts.Tracer.Start(ctx, "runner.tick")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	phases := machine.UpdateWith(r.grid, r.opts.Engine)
	update := time.Since(start)

	actual, nerd := sleepFor(r.opts.Sleep, r.render, update, r.opts.Nerd)
	r.state.Tick = r.grid.TickCount()
	r.state.Cells = r.grid.Count()
	r.state.Update = update
	r.state.Render = r.render
	r.state.Sleep = actual
	r.state.UserSleep = r.opts.Sleep
	r.state.NerdSleep = nerd

	span.SetAttributes(
		attribute.Int64("tick", int64(r.state.Tick)),
		attribute.Int("cells", r.state.Cells),
		attribute.Bool("phase.generate", phases&machine.PhaseGenerate != 0),
		attribute.Bool("phase.rotate", phases&machine.PhaseRotate != 0),
		attribute.Bool("phase.move", phases&machine.PhaseMove != 0),
	)

	return Frame{Grid: r.grid.Clone(), State: r.state}
}

// publish replaces any unread frame with f. Only the runner goroutine sends.
func (r *Runner) publish(f Frame) {
	for {
		select {
		case r.frames <- f:
			return
		default:
		}
		select {
		case <-r.frames:
		default:
		}
	}
}

func (r *Runner) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// sleepFor returns the wait to use after a tick and the nerd-mode wait,
// which subtracts render and update time from the user's sleep.
func sleepFor(user, render, update time.Duration, nerd bool) (actual, nerdSleep time.Duration) {
	nerdSleep = user - render - update
	if nerdSleep < 0 {
		nerdSleep = 0
	}
	if nerd {
		return nerdSleep, nerdSleep
	}
	return user, nerdSleep
}
