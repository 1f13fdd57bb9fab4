package core

import "strings"

// Continuation marks the second column of a double-width rune.
// It is never printed.
const Continuation rune = 0

var blank = ScreenCell{Rune: ' '}

// ScreenCell is one character position: a rune and its foreground color.
type ScreenCell struct {
	Rune  rune
	Color Color
}

// Screen is a colored character buffer the renderer draws into.
// Frontends turn it into terminal output: lipgloss strings for Bubble Tea,
// SetContent calls for tcell.
type Screen struct {
	w, h  int
	cells []ScreenCell // Row-major, len w*h
}

// NewScreen returns a blank screen of the given size.
func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

// Width returns the screen width in columns.
func (s *Screen) Width() int { return s.w }

// Height returns the screen height in rows.
func (s *Screen) Height() int { return s.h }

// Bounds returns the whole screen as a Rect.
func (s *Screen) Bounds() Rect {
	return Rect{W: s.w, H: s.h}
}

// Resize changes the dimensions. The overlapping top-left region is kept.
func (s *Screen) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if s.cells != nil && width == s.w && height == s.h {
		return
	}
	cells := make([]ScreenCell, width*height)
	for i := range cells {
		cells[i] = blank
	}
	for y := range min(s.h, height) {
		copy(cells[y*width:y*width+min(s.w, width)], s.row(y))
	}
	s.w, s.h, s.cells = width, height, cells
}

func (s *Screen) row(y int) []ScreenCell {
	return s.cells[y*s.w : (y+1)*s.w]
}

// Clear fills the screen with default-colored spaces.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blank
	}
}

// SetColored places a rune with a foreground color.
// Out-of-bounds coordinates are ignored.
func (s *Screen) SetColored(x, y int, r rune, c Color) {
	if s.Bounds().Contains(x, y) {
		s.cells[y*s.w+x] = ScreenCell{Rune: r, Color: c}
	}
}

// Get returns the rune at (x, y), or a space outside the screen.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at (x, y), or a blank cell outside the screen.
func (s *Screen) GetCell(x, y int) ScreenCell {
	if !s.Bounds().Contains(x, y) {
		return blank
	}
	return s.cells[y*s.w+x]
}

// DrawTextColored writes text left to right from (x, y), one rune per column.
// Runes past the right edge are clipped.
func (s *Screen) DrawTextColored(x, y int, text string, c Color) {
	for _, r := range text {
		s.SetColored(x, y, r, c)
		x++
	}
}

// String returns the buffer as plain text, rows joined by newlines.
func (s *Screen) String() string {
	rows := make([]string, s.h)
	for y := range rows {
		rows[y] = s.Row(y)
	}
	return strings.Join(rows, "\n")
}

// Row returns row y as plain text, without continuation cells.
func (s *Screen) Row(y int) string {
	var sb strings.Builder
	s.Runs(y, func(text string, _ Color) { sb.WriteString(text) })
	return sb.String()
}

// Runs calls fn for each maximal run of same-colored cells in row y,
// left to right. Frontends use it to emit one style per run.
func (s *Screen) Runs(y int, fn func(text string, c Color)) {
	if y < 0 || y >= s.h {
		return
	}
	var sb strings.Builder
	var cur Color
	for i, cell := range s.row(y) {
		if i > 0 && cell.Color != cur && sb.Len() > 0 {
			fn(sb.String(), cur)
			sb.Reset()
		}
		cur = cell.Color
		if cell.Rune != Continuation {
			sb.WriteRune(cell.Rune)
		}
	}
	if sb.Len() > 0 {
		fn(sb.String(), cur)
	}
}
