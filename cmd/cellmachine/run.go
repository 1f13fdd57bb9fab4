package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/cellmachine/internal/config"
	"github.com/vovakirdan/cellmachine/internal/machine"
	"github.com/vovakirdan/cellmachine/internal/render"
	"github.com/vovakirdan/cellmachine/internal/runner"
	"github.com/vovakirdan/cellmachine/internal/storage"
)

var (
	flagTicks  uint64
	flagFrames bool
	flagNoSkip bool
	flagNoSave bool
)

var runCmd = &cobra.Command{
	Use:   "run <level>",
	Short: "Run a level without a screen",
	Long: `Tick a level headless and print the final grid.

Without --sleep the ticks run back to back. With --ticks 0 the level runs
until interrupted with Ctrl+C. The run is recorded in the run history.

Examples:
  cellmachine run factory --ticks 50
  cellmachine run clock --ticks 8 --frames --ascii
  cellmachine run collider --ticks 0 --sleep 100`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeLevels,
	RunE:              runHeadless,
}

func init() {
	runCmd.Flags().Uint64Var(&flagTicks, "ticks", 100, "Number of ticks to run (0 = until interrupted)")
	runCmd.Flags().BoolVar(&flagFrames, "frames", false, "Print the grid after every tick")
	runCmd.Flags().BoolVar(&flagNoSkip, "no-skip", false, "Run every sub-phase even when no cell of its type is present")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runHeadless(cmd *cobra.Command, args []string) error {
	lvl, err := resolveLevel(args[0])
	if err != nil {
		return err
	}
	g, err := lvl.ToGrid()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, span := tracer.Start(ctx, "cli.run", trace.WithAttributes(
		attribute.String("level.id", lvl.ID),
		attribute.Int64("ticks", int64(flagTicks)),
	))
	defer span.End()

	var sleep time.Duration
	if cmd.Flags().Changed("sleep") {
		sleep = config.Sleep(viewerCfg.TickMS)
	}

	startCells := g.Count()
	started := time.Now()
	r := runner.New(g, runner.Options{
		Sleep:    sleep,
		MaxTicks: flagTicks,
		Engine:   machine.Options{DisableSkip: flagNoSkip},
		OnTick:   frameWriter(renderer),
		Logger:   logger,
		Tracer:   tracer,
	})

	if err := r.Run(ctx); err != nil {
		return fmt.Errorf("running level: %w", err)
	}

	final := r.Snapshot()
	st := final.State
	span.SetAttributes(attribute.Int64("ticks.done", int64(st.Tick)), attribute.Int("cells", st.Cells))

	if !flagFrames {
		fmt.Println(renderer.Text(final.Grid))
	}
	fmt.Printf("%s: %d ticks, %d -> %d cells in %s\n",
		lvl.Title(), st.Tick, startCells, st.Cells, time.Since(started).Round(time.Millisecond))

	if flagNoSave || st.Tick == 0 {
		return nil
	}
	store := openStore()
	if store == nil {
		return nil
	}
	defer store.Close()

	_, err = store.SaveRun(storage.Run{
		LevelID:    lvl.ID,
		Ticks:      st.Tick,
		TPS:        tps(st.Tick, time.Since(started)),
		Duration:   time.Since(started),
		StartCells: startCells,
		EndCells:   st.Cells,
		Backend:    "headless",
	})
	if err != nil {
		logger.Warn("could not save run", "level", lvl.ID, "error", err)
	}
	return nil
}

// frameWriter prints each tick when --frames is set.
func frameWriter(r *render.Renderer) func(runner.Frame) {
	if !flagFrames {
		return nil
	}
	return func(f runner.Frame) {
		fmt.Printf("-- tick %d --\n%s\n", f.State.Tick, r.Text(f.Grid))
	}
}

// tps is the average tick rate of a run; short runs report their tick count.
func tps(ticks uint64, d time.Duration) int {
	if d < time.Second {
		return int(ticks)
	}
	return int(float64(ticks) / d.Seconds())
}
