// Package tui provides the Bubble Tea frontend for the cell machine.
// It handles the terminal UI loop, input mapping, and level selection.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cellmachine/internal/runner"
)

// FrameMsg carries a snapshot published by a runner.
type FrameMsg struct {
	Frame  runner.Frame
	source *runner.Runner
}

// runDoneMsg is sent once the runner goroutine has returned.
type runDoneMsg struct {
	source *runner.Runner
	err    error
}

// waitFrame returns a command that blocks until the next snapshot of r.
// It yields no message once the channel is closed.
func waitFrame(r *runner.Runner) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-r.Snapshots()
		if !ok {
			return nil
		}
		return FrameMsg{Frame: f, source: r}
	}
}

// runCmd drives the simulation inside a Bubble Tea command goroutine.
func runCmd(ctx context.Context, r *runner.Runner) tea.Cmd {
	return func() tea.Msg {
		return runDoneMsg{source: r, err: r.Run(ctx)}
	}
}
