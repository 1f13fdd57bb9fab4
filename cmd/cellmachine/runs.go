package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cellmachine/internal/platform/tui"
	"github.com/vovakirdan/cellmachine/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsBoard bool
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [level]",
	Short: "Show recorded runs",
	Long: `Display recent runs, newest first, for one level or for all levels.

Examples:
  cellmachine runs
  cellmachine runs clock --limit 5
  cellmachine runs --board
  cellmachine runs intro --clear`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeLevels,
	RunE:              runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Maximum number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsBoard, "board", false, "Browse runs in an interactive table")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the recorded runs")
}

func runRuns(_ *cobra.Command, args []string) error {
	levelID := ""
	if len(args) == 1 {
		levelID = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	if flagRunsClear {
		return clearRuns(store, levelID)
	}

	if flagRunsBoard {
		cfg := runtimeConfig()
		_, err := tui.RunRunsBoard(store, cfg.ScreenW, cfg.ScreenH)
		return err
	}

	runs, err := store.RecentRuns(levelID, flagRunsLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	if levelID == "" {
		fmt.Println("Recent runs")
	} else {
		fmt.Printf("Recent runs - %s\n", levelID)
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play a level with 'cellmachine play <id>' to record one.")
		return nil
	}

	fmt.Printf("  %-14s  %-8s  %-5s  %-8s  %-9s  %-8s  %s\n", "Level", "Ticks", "TPS", "Time", "Cells", "Via", "Date")
	fmt.Printf("  %-14s  %-8s  %-5s  %-8s  %-9s  %-8s  %s\n", "-----", "-----", "---", "----", "-----", "---", "----")

	for _, r := range runs {
		fmt.Printf("  %-14s  %-8d  %-5d  %-8s  %-9s  %-8s  %s\n",
			r.LevelID,
			r.Ticks,
			r.TPS,
			r.Duration.Round(100*time.Millisecond),
			fmt.Sprintf("%d>%d", r.StartCells, r.EndCells),
			r.Backend,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	if levelID != "" {
		best, err := store.BestRun(levelID)
		if err == nil && best != nil {
			fmt.Println()
			fmt.Printf("Fastest: %d TPS over %d ticks\n", best.TPS, best.Ticks)
		}
	}
	return nil
}

func clearRuns(store *storage.Store, levelID string) error {
	n, err := store.ClearRuns(levelID)
	if err != nil {
		return fmt.Errorf("clearing runs: %w", err)
	}
	if levelID == "" {
		fmt.Printf("Cleared %d runs.\n", n)
	} else {
		fmt.Printf("Cleared %d runs for %s.\n", n, levelID)
	}
	return nil
}
