package runner

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vovakirdan/cellmachine/internal/machine"
)

func moverRow(w int) *machine.Grid {
	g := machine.MustGrid(w, 1)
	g.Set(0, 0, machine.C(machine.Mover, machine.Right))
	return g
}

func TestRunMaxTicks(t *testing.T) {
	var frames []Frame
	r := New(moverRow(20), Options{
		MaxTicks: 10,
		OnTick:   func(f Frame) { frames = append(frames, f) },
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := r.Stats().Tick; got != 10 {
		t.Errorf("Stats().Tick = %d, expected 10", got)
	}
	if len(frames) != 10 {
		t.Fatalf("OnTick called %d times, expected 10", len(frames))
	}
	for i, f := range frames {
		if f.State.Tick != uint64(i+1) {
			t.Errorf("frame %d tick = %d", i, f.State.Tick)
		}
		if c, _ := f.Grid.Get(i+1, 0); c.Type() != machine.Mover {
			t.Errorf("frame %d: mover not at x=%d", i, i+1)
		}
	}

	// The last frame remains readable, then the channel is closed.
	last, ok := <-r.Snapshots()
	if !ok || last.State.Tick != 10 {
		t.Errorf("last snapshot = %+v, %v", last.State, ok)
	}
	if _, ok := <-r.Snapshots(); ok {
		t.Error("snapshots channel should be closed after Run returns")
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	var frames []Frame
	r := New(moverRow(5), Options{
		MaxTicks: 3,
		OnTick:   func(f Frame) { frames = append(frames, f) },
	})
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if frames[0].Grid == frames[1].Grid {
		t.Fatal("frames should not share a grid")
	}
	if c, _ := frames[0].Grid.Get(1, 0); c.Type() != machine.Mover {
		t.Error("earlier frame was modified by later ticks")
	}
	if frames[0].Grid.TickCount() != 1 {
		t.Errorf("frame 0 grid tick = %d", frames[0].Grid.TickCount())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r := New(moverRow(4), Options{Sleep: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Wait for a couple of ticks
	for f := range r.Snapshots() {
		if f.State.Tick >= 2 {
			break
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, expected nil on cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestPauseAndStep(t *testing.T) {
	ticked := make(chan uint64, 10)
	r := New(moverRow(8), Options{
		Paused: true,
		OnTick: func(f Frame) { ticked <- f.State.Tick },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-ticked:
		t.Fatal("paused runner should not tick")
	case <-time.After(30 * time.Millisecond):
	}

	for want := uint64(1); want <= 2; want++ {
		r.Step()
		select {
		case got := <-ticked:
			if got != want {
				t.Errorf("step ticked to %d, expected %d", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Step did not tick")
		}
	}

	cancel()
	<-done

	st := r.Stats()
	if st.Tick != 2 || !st.Paused {
		t.Errorf("Stats() = %+v, expected 2 ticks and paused", st)
	}
}

func TestStepIgnoredWhileRunning(t *testing.T) {
	r := New(moverRow(3), Options{})
	r.Step()
	if r.steps != 0 {
		t.Error("Step should not queue ticks while running")
	}
	if !r.TogglePause() || !r.Stats().Paused {
		t.Error("TogglePause should pause")
	}
	r.SetPaused(false)
	if r.Stats().Paused {
		t.Error("SetPaused(false) should resume")
	}
}

func TestResetPublishesNewGrid(t *testing.T) {
	r := New(moverRow(6), Options{Paused: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	fresh := machine.MustGrid(2, 2)
	fresh.Set(1, 1, machine.C(machine.Wall, machine.Right))
	r.Reset(fresh)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case f := <-r.Snapshots():
			if f.Grid.Width() == 2 {
				cancel()
				<-done
				if f.State.Cells != 1 || f.State.Tick != 0 {
					t.Errorf("reset state = %+v", f.State)
				}
				return
			}
		case <-deadline:
			t.Fatal("reset grid was never published")
		}
	}
}

func TestSleepFor(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name                 string
		user, render, update time.Duration
		nerd                 bool
		actual, nerdSleep    time.Duration
	}{
		{"plain", 200 * ms, 3 * ms, 1 * ms, false, 200 * ms, 196 * ms},
		{"nerd", 200 * ms, 3 * ms, 1 * ms, true, 196 * ms, 196 * ms},
		{"nerd floor", 2 * ms, 3 * ms, 1 * ms, true, 0, 0},
		{"zero", 0, 0, 0, false, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual, nerd := sleepFor(tc.user, tc.render, tc.update, tc.nerd)
			if actual != tc.actual || nerd != tc.nerdSleep {
				t.Errorf("sleepFor() = %v, %v; expected %v, %v", actual, nerd, tc.actual, tc.nerdSleep)
			}
		})
	}
}

func TestRenderTimeFeedsNerdSleep(t *testing.T) {
	var last Frame
	r := New(moverRow(4), Options{
		Sleep:    50 * time.Millisecond,
		Nerd:     true,
		MaxTicks: 1,
		OnTick:   func(f Frame) { last = f },
	})
	r.ReportRender(60 * time.Millisecond)
	r.SetSleep(40 * time.Millisecond)

	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if last.State.Render != 60*time.Millisecond {
		t.Errorf("Render = %v", last.State.Render)
	}
	if last.State.UserSleep != 40*time.Millisecond || r.Sleep() != 40*time.Millisecond {
		t.Errorf("UserSleep = %v", last.State.UserSleep)
	}
	if last.State.Sleep != 0 {
		t.Errorf("nerd sleep should floor at zero, got %v", last.State.Sleep)
	}
}

func TestRunSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(rec))

	r := New(moverRow(5), Options{MaxTicks: 3, Tracer: tp.Tracer("test")})
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	counts := map[string]int{}
	for _, s := range rec.Ended() {
		counts[s.Name()]++
	}
	if counts["runner.run"] != 1 || counts["runner.tick"] != 3 {
		t.Errorf("span counts = %v", counts)
	}
}
