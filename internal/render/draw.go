package render

import (
	"fmt"

	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/machine"
)

// CellWidth is the number of screen columns used per grid column:
// the glyph followed by a space, so cells look square.
const CellWidth = 2

// Viewport is the grid region scrolled into view.
// X is the leftmost grid column and Y the number of grid rows hidden above the top edge.
type Viewport struct {
	X, Y int
}

// Renderer draws grids with a glyph set and palette.
type Renderer struct {
	Glyphs  GlyphSet
	Palette Palette
}

// New creates a Renderer.
func New(glyphs GlyphSet, palette Palette) *Renderer {
	if palette == nil {
		palette, _ = NewPalette(nil)
	}
	return &Renderer{Glyphs: glyphs, Palette: palette}
}

// VisibleCols returns how many grid columns fit in a screen area width.
func VisibleCols(width int) int {
	return width / CellWidth
}

// ClampViewport keeps the viewport within the grid for an area of the given size.
func ClampViewport(vp Viewport, g *machine.Grid, area core.Rect) Viewport {
	maxX := max(0, g.Width()-VisibleCols(area.W))
	maxY := max(0, g.Height()-area.H)
	return Viewport{
		X: core.Clamp(vp.X, 0, maxX),
		Y: core.Clamp(vp.Y, 0, maxY),
	}
}

// Draw renders the grid into area on dst. The top screen row shows grid row
// height-1-vp.Y, so y grows upward on screen as it does in the grid.
// Empty slots are left as spaces.
func (r *Renderer) Draw(dst *core.Screen, area core.Rect, g *machine.Grid, vp Viewport) {
	if area.Empty() {
		return
	}
	cols := VisibleCols(area.W)
	for row := 0; row < area.H; row++ {
		y := g.Height() - 1 - (vp.Y + row)
		if y < 0 {
			break
		}
		for col := 0; col < cols; col++ {
			x := vp.X + col
			if x >= g.Width() {
				break
			}
			c, ok := g.Get(x, y)
			if !ok {
				continue
			}
			sx := area.X + col*CellWidth
			sy := area.Y + row
			glyph := Glyph(r.Glyphs, c)
			color := r.Palette.Color(c.Type())
			dst.SetColored(sx, sy, glyph, color)
			if Wide(glyph) {
				dst.SetColored(sx+1, sy, core.Continuation, color)
			}
		}
	}
}

// Text renders the whole grid as plain text, one line per row, top row first.
func (r *Renderer) Text(g *machine.Grid) string {
	s := core.NewScreen(g.Width()*CellWidth, g.Height())
	r.Draw(s, core.NewRect(0, 0, s.Width(), s.Height()), g, Viewport{})
	return s.String()
}

// HUD formats the statistics line shown above the grid.
func HUD(st core.SimState) string {
	line := fmt.Sprintf(
		"Tick: %d, TPS: %d, Render: %dms, Update: %dms, Sleep: actual = %dms | user = %dms | nerd = %dms",
		st.Tick,
		st.TPS,
		st.Render.Milliseconds(),
		st.Update.Milliseconds(),
		st.Sleep.Milliseconds(),
		st.UserSleep.Milliseconds(),
		st.NerdSleep.Milliseconds(),
	)
	if st.Paused {
		line += " [paused]"
	}
	return line
}
