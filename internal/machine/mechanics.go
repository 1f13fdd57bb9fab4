package machine

// PushResult is the outcome of a push.
type PushResult int

const (
	Moved PushResult = iota
	NotMoved
	Trashed
)

// String returns the string representation of a push result.
func (r PushResult) String() string {
	switch r {
	case Moved:
		return "Moved"
	case NotMoved:
		return "NotMoved"
	case Trashed:
		return "Trashed"
	default:
		return "Unknown"
	}
}

// CanMove reports whether c may be pushed one step in d.
// Walls never move; slides only move along their own axis.
func CanMove(c Cell, d Direction) bool {
	switch c.typ {
	case Wall:
		return false
	case Slide:
		return c.dir.SameAxis(d)
	default:
		return true
	}
}

// IsTrash reports whether cells pushed into c are destroyed.
func IsTrash(c Cell) bool {
	return c.typ == Trash || c.typ == Enemy
}

// CanGenerate reports whether a generator may copy c.
func CanGenerate(c Cell) bool {
	return true
}

// CanRotate reports whether c may be rotated from the given side.
func CanRotate(c Cell, side Direction) bool {
	return c.typ != Wall
}

// PushOpts describes a push. Force is the initial push strength; Payload, when
// HasPayload is set, is deposited at the origin. MarkMovers flags carried movers
// facing the push direction as updated so they do not fire again this tick.
type PushOpts struct {
	Force      int
	Payload    Cell
	HasPayload bool
	MarkMovers bool
}

// PushCell tries to shift the chain starting at (x, y) one step in d.
//
// The chain is scanned first: aligned movers add force, opposed movers remove it,
// trash ends the chain, an immovable cell or the grid edge blocks it, and running
// out of force blocks it. If the chain can move, every cell is shifted by carrying
// the previous value forward, starting with the payload.
func PushCell(g *Grid, x, y int, d Direction, opts PushOpts) PushResult {
	dx, dy := d.Vector()
	force := opts.Force

	tx, ty := x, y
	for {
		if !g.InBounds(tx, ty) {
			return NotMoved
		}
		c, ok := g.Get(tx, ty)
		if !ok {
			break
		}
		if c.typ == Mover {
			if c.dir == d {
				force++
			} else if c.dir == d.Flip() {
				force--
			}
		}
		if IsTrash(c) {
			break
		}
		if !CanMove(c, d) {
			return NotMoved
		}
		tx += dx
		ty += dy

		if force <= 0 {
			return NotMoved
		}
		if tx == x && ty == y {
			break
		}
	}

	result := Trashed
	next, hasNext := opts.Payload, opts.HasPayload
	cx, cy := x, y
	for {
		if hasNext && opts.MarkMovers && next.typ == Mover && next.dir == d {
			next.updated = true
		}
		if c, ok := g.Get(cx, cy); ok {
			if c.typ == Enemy {
				g.Delete(cx, cy)
				break
			}
			if IsTrash(c) {
				break
			}
		}

		result = Moved
		old, hadOld := g.Take(cx, cy)
		g.SetCell(cx, cy, next, hasNext)
		next, hasNext = old, hadOld
		if cx == tx && cy == ty {
			break
		}
		cx += dx
		cy += dy
	}
	return result
}

// PushFrom is PushCell without a payload: the cell at (x, y) is moved and (x, y) is left empty.
func PushFrom(g *Grid, x, y int, d Direction, force int, markMovers bool) PushResult {
	return PushCell(g, x, y, d, PushOpts{Force: force, MarkMovers: markMovers})
}

// RotateBy turns the cell at (x, y) by the quarter-turn offset if it can be rotated.
// side names the neighbor slot the rotation comes from.
func RotateBy(g *Grid, x, y int, offset, side Direction) bool {
	c := g.At(x, y)
	if c == nil || !CanRotate(*c, side) {
		return false
	}
	c.SetDirection(c.dir.Add(offset))
	return true
}
