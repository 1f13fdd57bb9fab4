package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/cellmachine/internal/core"
)

// MapKey translates a tcell key event into a viewer action.
// The bindings match the Bubble Tea viewer.
func MapKey(ev *tcell.EventKey) core.Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return core.ActionQuit
	case tcell.KeyUp:
		return core.ActionUp
	case tcell.KeyDown:
		return core.ActionDown
	case tcell.KeyLeft:
		return core.ActionLeft
	case tcell.KeyRight:
		return core.ActionRight
	case tcell.KeyEnter:
		return core.ActionConfirm
	case tcell.KeyRune:
		return mapRune(ev.Rune())
	}
	return core.ActionNone
}

func mapRune(r rune) core.Action {
	switch r {
	case ' ', 'p':
		return core.ActionPause
	case '.':
		return core.ActionStep
	case '+', '=':
		return core.ActionFaster
	case '-', '_':
		return core.ActionSlower
	case 'r':
		return core.ActionRestart
	case 'k':
		return core.ActionUp
	case 'j':
		return core.ActionDown
	case 'h':
		return core.ActionLeft
	case 'l':
		return core.ActionRight
	case 'b':
		return core.ActionBack
	case 'q':
		return core.ActionQuit
	}
	return core.ActionNone
}
