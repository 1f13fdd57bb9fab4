package machine

// Phase identifies one of the sub-phases of a tick.
type Phase uint8

const (
	PhaseGenerate Phase = 1 << iota
	PhaseRotate
	PhaseMove
)

// Options tunes a single Update call.
type Options struct {
	// DisableSkip runs every sub-phase even when no cell of its type is present.
	// Results are identical either way.
	DisableSkip bool
}

// Update performs one simulation step on g and increments its tick counter.
func Update(g *Grid) {
	UpdateWith(g, Options{})
}

// UpdateWith performs one simulation step and returns the set of sub-phases that ran.
func UpdateWith(g *Grid, opts Options) Phase {
	present := resetCells(g)

	var ran Phase
	if opts.DisableSkip || present.has(Generator) {
		doGenerators(g)
		ran |= PhaseGenerate
	}
	if opts.DisableSkip || present.has(RotatorCW) || present.has(RotatorCCW) {
		doRotators(g)
		ran |= PhaseRotate
	}
	if opts.DisableSkip || present.has(Mover) {
		doMovers(g)
		ran |= PhaseMove
	}

	g.ticks++
	return ran
}

// typeSet is a bitset of cell types present in the grid.
type typeSet uint16

func (s typeSet) has(t CellType) bool {
	return s&(1<<t) != 0
}

// resetCells clears every updated flag and records which types are present.
func resetCells(g *Grid) typeSet {
	var s typeSet
	for i := range g.cells {
		c := &g.cells[i]
		if c.typ == 0 {
			continue
		}
		c.updated = false
		s |= 1 << c.typ
	}
	return s
}

// scanOrder visits every slot in the order used for a directional pass.
// Right and Up passes walk from the top-right corner down and Left and Down
// passes from the bottom-left corner up, so the cell furthest along the
// direction of travel is always visited first.
func scanOrder(g *Grid, d Direction, fn func(x, y int)) {
	if d == Right || d == Up {
		for y := g.h - 1; y >= 0; y-- {
			for x := g.w - 1; x >= 0; x-- {
				fn(x, y)
			}
		}
		return
	}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			fn(x, y)
		}
	}
}

func doGenerators(g *Grid) {
	for _, d := range Directions {
		fx, fy := d.Vector()
		scanOrder(g, d, func(x, y int) {
			c := g.At(x, y)
			if c == nil || c.typ != Generator || c.dir != d || c.updated {
				return
			}
			c.updated = true
			src, ok := g.Get(x-fx, y-fy)
			if !ok || !CanGenerate(src) {
				return
			}
			PushCell(g, x+fx, y+fy, d, PushOpts{Force: 1, Payload: src, HasPayload: true})
		})
	}
}

// rotatorNeighbors lists the neighbor offsets a rotator visits and the side
// each rotation comes from, as seen from the neighbor.
var rotatorNeighbors = [4]struct {
	dx, dy int
	side   Direction
}{
	{1, 0, Left},
	{0, -1, Up},
	{-1, 0, Right},
	{0, 1, Down},
}

func doRotators(g *Grid) {
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			c := g.At(x, y)
			if c == nil || c.updated {
				continue
			}
			var offset Direction
			switch c.typ {
			case RotatorCW:
				offset = Down
			case RotatorCCW:
				offset = Up
			default:
				continue
			}
			c.updated = true
			for _, n := range rotatorNeighbors {
				RotateBy(g, x+n.dx, y+n.dy, offset, n.side)
			}
		}
	}
}

func doMovers(g *Grid) {
	for _, d := range Directions {
		scanOrder(g, d, func(x, y int) {
			c := g.At(x, y)
			if c == nil || c.typ != Mover || c.dir != d || c.updated {
				return
			}
			c.updated = true
			PushFrom(g, x, y, d, 0, true)
		})
	}
}
