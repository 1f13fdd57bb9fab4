package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cellmachine/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a level picker",
	Long: `Start an interactive session: pick a level, watch it, and return to
the picker with B. Tab opens the run history.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select level
  Tab          - Run history
  Q            - Quit

The session always uses the Bubble Tea backend.

Examples:
  cellmachine menu
  cellmachine menu --sleep 100
  cellmachine menu --levels ./levels`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	err := tui.RunSession(menuItems(), store, runtimeConfig(), tui.ViewerOptions{
		Context:  cmd.Context(),
		Renderer: renderer,
		Backend:  "tea",
		Logger:   logger,
		Tracer:   tracer,
		Store:    store,
	})
	if err != nil {
		return fmt.Errorf("running session: %w", err)
	}
	return nil
}
