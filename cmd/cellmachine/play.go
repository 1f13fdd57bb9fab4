package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cellmachine/internal/config"
	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/levels"
	"github.com/vovakirdan/cellmachine/internal/platform/term"
	"github.com/vovakirdan/cellmachine/internal/platform/tui"
	"github.com/vovakirdan/cellmachine/internal/storage"
)

var flagPaused bool

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Watch a level",
	Long: `Start the viewer for a level. Without an argument a level picker is shown.

The level may be a builtin ID, a path to a level file, an ID from the
levels directory, or a V1/V3 level code.

Controls:
  Space/P       - Pause / resume
  .             - Single step while paused
  +/-           - Faster / slower
  R             - Restart the level
  Arrows/hjkl   - Scroll large grids
  Q/Esc/Ctrl+C  - Quit

Examples:
  cellmachine play intro
  cellmachine play clock --sleep 50 --nerd
  cellmachine play ./levels/maze.yaml --backend tcell
  cellmachine play 'V3;3;1;6{c;Tiny;' --paused`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeLevels,
	RunE:              runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagPaused, "paused", false, "Start with the simulation paused")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg := runtimeConfig()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	var lvl levels.Level
	if len(args) == 1 {
		var err error
		if lvl, err = resolveLevel(args[0]); err != nil {
			return err
		}
	} else {
		picked, ok, err := pickLevel(store, cfg)
		if err != nil || !ok {
			return err
		}
		lvl = picked
	}

	logger.Debug("starting viewer", "level", lvl.ID, "backend", viewerCfg.Backend, "sleep", cfg.Sleep)

	if viewerCfg.Backend == config.BackendTcell {
		err := term.Play(cmd.Context(), lvl, term.Options{
			Config:   cfg,
			Renderer: renderer,
			Store:    store,
			Paused:   flagPaused,
			Logger:   logger,
			Tracer:   tracer,
		})
		if err != nil {
			return fmt.Errorf("running viewer: %w", err)
		}
		return nil
	}

	err := tui.Run(lvl, tui.ViewerOptions{
		Context:  cmd.Context(),
		Config:   cfg,
		Renderer: renderer,
		Store:    store,
		Backend:  config.BackendTea,
		Paused:   flagPaused,
		Logger:   logger,
		Tracer:   tracer,
	})
	if err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

// pickLevel shows the level picker until a level is chosen.
// The run board can be opened from the picker and returns to it.
func pickLevel(store *storage.Store, cfg core.RuntimeConfig) (levels.Level, bool, error) {
	items := menuItems()
	for {
		result, err := tui.RunMenu(items, cfg)
		if err != nil {
			return levels.Level{}, false, err
		}
		cfg = result.Config

		switch {
		case result.Quit:
			return levels.Level{}, false, nil

		case result.WantsRuns:
			goBack, err := tui.RunRunsBoard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return levels.Level{}, false, err
			}
			if !goBack {
				return levels.Level{}, false, nil
			}

		case result.Item != nil:
			lvl, err := result.Item.Load()
			if err != nil {
				return levels.Level{}, false, err
			}
			return lvl, true, nil
		}
	}
}
