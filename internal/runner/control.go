package runner

import (
	"fmt"

	"github.com/vovakirdan/cellmachine/internal/config"
	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/machine"
)

// Reloader builds a fresh grid for the restart action.
type Reloader func() (*machine.Grid, error)

// Apply performs a simulation control action shared by all frontends.
// It reports whether the action was a simulation control; scrolling and
// quitting are left to the caller. reload may be nil when restart is unsupported.
func (r *Runner) Apply(a core.Action, reload Reloader) (bool, error) {
	switch a {
	case core.ActionPause:
		r.TogglePause()
	case core.ActionStep:
		r.Step()
	case core.ActionFaster:
		r.SetSleep(config.Sleep(config.Faster(int(r.Sleep().Milliseconds()))))
	case core.ActionSlower:
		r.SetSleep(config.Sleep(config.Slower(int(r.Sleep().Milliseconds()))))
	case core.ActionRestart:
		if reload == nil {
			return true, nil
		}
		g, err := reload()
		if err != nil {
			return true, fmt.Errorf("runner: restart: %w", err)
		}
		r.Reset(g)
	default:
		return false, nil
	}
	return true, nil
}
