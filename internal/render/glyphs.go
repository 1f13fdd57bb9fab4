// Package render draws cell machine grids into a core.Screen.
// It is shared by the Bubble Tea viewer, the tcell backend and the headless runner.
package render

import (
	"github.com/vovakirdan/cellmachine/internal/machine"
)

// GlyphSet selects the characters used for cells.
type GlyphSet int

const (
	Unicode GlyphSet = iota
	ASCII
)

// ParseGlyphSet maps a config value to a GlyphSet; unknown values fall back to Unicode.
func ParseGlyphSet(s string) GlyphSet {
	if s == "ascii" {
		return ASCII
	}
	return Unicode
}

// Glyphs per type, one rune per direction in Right, Down, Left, Up order.
var unicodeGlyphs = [...][4]rune{
	machine.Wall:       {'■', '■', '■', '■'},
	machine.Mover:      {'→', '↓', '←', '↑'},
	machine.Generator:  {'⇒', '⇓', '⇐', '⇑'},
	machine.RotatorCW:  {'↻', '↻', '↻', '↻'},
	machine.RotatorCCW: {'↺', '↺', '↺', '↺'},
	machine.Push:       {'#', '#', '#', '#'},
	machine.Slide:      {'=', '‖', '=', '‖'},
	machine.Trash:      {'🗑', '🗑', '🗑', '🗑'},
	machine.Enemy:      {'×', '×', '×', '×'},
}

var asciiGlyphs = [...][4]rune{
	machine.Wall:       {'@', '@', '@', '@'},
	machine.Mover:      {'>', 'v', '<', '^'},
	machine.Generator:  {'}', 'V', '{', 'A'},
	machine.RotatorCW:  {'R', 'R', 'R', 'R'},
	machine.RotatorCCW: {'L', 'L', 'L', 'L'},
	machine.Push:       {'#', '#', '#', '#'},
	machine.Slide:      {'=', '|', '=', '|'},
	machine.Trash:      {'T', 'T', 'T', 'T'},
	machine.Enemy:      {'X', 'X', 'X', 'X'},
}

// Glyph returns the character for a cell in the given set.
// Invalid cells render as '?'.
func Glyph(set GlyphSet, c machine.Cell) rune {
	t := c.Type()
	if !t.Valid() || !c.Direction().Valid() {
		return '?'
	}
	if set == ASCII {
		return asciiGlyphs[t][c.Direction()]
	}
	return unicodeGlyphs[t][c.Direction()]
}

// Wide reports whether r takes two terminal columns.
// Only the trash glyph does among the runes above.
func Wide(r rune) bool {
	return r >= 0x1F300 && r <= 0x1FAFF
}
