package machine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSize is returned for grids with a non-positive dimension or
// more than MaxCells cells.
var ErrInvalidSize = errors.New("machine: invalid grid size")

// MaxCells bounds the number of cells in a grid.
const MaxCells = 1 << 22

// ValidSize reports whether a w by h grid can be created.
// The product is never computed, so huge dimensions cannot overflow.
func ValidSize(w, h int) bool {
	return w > 0 && h > 0 && w <= MaxCells/h
}

// Grid is a fixed-size rectangular field of optional cells plus a tick counter.
// Cells are stored in row-major order: index = y*W + x, with (0,0) at the bottom-left.
// The zero Cell marks an empty slot.
type Grid struct {
	w, h  int
	cells []Cell
	ticks uint64
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(w, h int) (*Grid, error) {
	if !ValidSize(w, h) {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return &Grid{
		w:     w,
		h:     h,
		cells: make([]Cell, w*h),
	}, nil
}

// MustGrid is NewGrid for dimensions known to be valid.
func MustGrid(w, h int) *Grid {
	g, err := NewGrid(w, h)
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// TickCount returns the number of completed Update calls.
func (g *Grid) TickCount() uint64 { return g.ticks }

// InBounds returns true if (x, y) is inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

func (g *Grid) index(x, y int) int {
	return y*g.w + x
}

// Get returns the cell at (x, y) and whether the slot is occupied.
// Out-of-bounds reads return an empty cell.
func (g *Grid) Get(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	c := g.cells[g.index(x, y)]
	return c, c.typ != 0
}

// At returns a pointer to the occupied cell at (x, y) for in-place edits,
// or nil when the slot is empty or out of bounds.
func (g *Grid) At(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	c := &g.cells[g.index(x, y)]
	if c.typ == 0 {
		return nil
	}
	return c
}

// Set writes c at (x, y). Writing the zero Cell clears the slot.
// Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, c Cell) {
	if g.InBounds(x, y) {
		g.cells[g.index(x, y)] = c
	}
}

// SetCell writes c when ok is true and clears the slot otherwise.
func (g *Grid) SetCell(x, y int, c Cell, ok bool) {
	if !ok {
		c = Cell{}
	}
	g.Set(x, y, c)
}

// Take removes and returns the cell at (x, y).
func (g *Grid) Take(x, y int) (Cell, bool) {
	c, ok := g.Get(x, y)
	if ok {
		g.cells[g.index(x, y)] = Cell{}
	}
	return c, ok
}

// Delete clears the slot at (x, y).
func (g *Grid) Delete(x, y int) {
	g.Set(x, y, Cell{})
}

// Clone returns a deep copy of the grid, tick counter included.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{
		w:     g.w,
		h:     g.h,
		cells: cells,
		ticks: g.ticks,
	}
}

// Equal returns true if both grids have the same dimensions and behaviorally equal cells.
// Updated flags and tick counters are not compared.
func (g *Grid) Equal(other *Grid) bool {
	if g.w != other.w || g.h != other.h {
		return false
	}
	for i, c := range g.cells {
		o := other.cells[i]
		if !c.Same(o) {
			return false
		}
	}
	return true
}

// Count returns the number of occupied slots.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c.typ != 0 {
			n++
		}
	}
	return n
}

// Each calls fn for every occupied slot in row-major order (y ascending, x ascending).
func (g *Grid) Each(fn func(x, y int, c Cell)) {
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if c := g.cells[g.index(x, y)]; c.typ != 0 {
				fn(x, y, c)
			}
		}
	}
}

// letters are the debug characters per type, indexed by direction where it matters.
var letters = [...]string{
	Wall:       "####",
	Mover:      ">v<^",
	Generator:  "GGGG",
	RotatorCW:  "RRRR",
	RotatorCCW: "LLLL",
	Push:       "PPPP",
	Slide:      "-|-|",
	Trash:      "TTTT",
	Enemy:      "XXXX",
}

// String renders the grid as text, top row first, '.' for empty slots.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.w + 1) * g.h)
	for y := g.h - 1; y >= 0; y-- {
		for x := 0; x < g.w; x++ {
			c := g.cells[g.index(x, y)]
			if c.typ == 0 {
				b.WriteByte('.')
				continue
			}
			b.WriteByte(letters[c.typ][c.dir])
		}
		if y > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
