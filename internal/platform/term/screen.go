package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/cellmachine/internal/core"
)

// NewScreen creates and initializes a terminal screen.
// Callers must Fini it to restore the terminal.
func NewScreen() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault)
	s.HideCursor()
	s.Clear()
	return s, nil
}

// styleFor maps a screen color to a tcell style.
func styleFor(c core.Color) tcell.Style {
	if c == core.ColorDefault {
		return tcell.StyleDefault
	}
	r, g, b := c.RGB()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

// flush copies buf to the terminal screen and shows it.
// Continuation cells are skipped; tcell lays wide runes out itself.
func flush(dst tcell.Screen, buf *core.Screen) {
	dst.Clear()
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			cell := buf.GetCell(x, y)
			if cell.Rune == core.Continuation {
				continue
			}
			dst.SetContent(x, y, cell.Rune, nil, styleFor(cell.Color))
		}
	}
	dst.Show()
}
