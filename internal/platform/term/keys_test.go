package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/cellmachine/internal/core"
)

func TestMapKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want core.Action
	}{
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), core.ActionPause},
		{"p", tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), core.ActionPause},
		{"dot", tcell.NewEventKey(tcell.KeyRune, '.', tcell.ModNone), core.ActionStep},
		{"plus", tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone), core.ActionFaster},
		{"equals", tcell.NewEventKey(tcell.KeyRune, '=', tcell.ModNone), core.ActionFaster},
		{"minus", tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone), core.ActionSlower},
		{"restart", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), core.ActionRestart},
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), core.ActionUp},
		{"j", tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), core.ActionDown},
		{"h", tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone), core.ActionLeft},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), core.ActionRight},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), core.ActionConfirm},
		{"b", tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone), core.ActionBack},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), core.ActionQuit},
		{"esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), core.ActionQuit},
		{"ctrl+c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), core.ActionQuit},
		{"unbound", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapKey(tt.ev); got != tt.want {
				t.Errorf("MapKey() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestStyleFor(t *testing.T) {
	if styleFor(core.ColorDefault) != tcell.StyleDefault {
		t.Error("default color should use the default style")
	}
	fg, _, _ := styleFor("#4C79D8").Decompose()
	if fg != tcell.NewRGBColor(0x4C, 0x79, 0xD8) {
		t.Errorf("foreground = %v", fg)
	}
}
