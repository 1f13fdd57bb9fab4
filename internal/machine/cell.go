package machine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCellType is returned when a cell is built from a tag outside the type table.
var ErrUnknownCellType = errors.New("machine: unknown cell type")

// CellType identifies one of the nine cell kinds.
type CellType uint8

const (
	Wall CellType = iota + 1
	Mover
	Generator
	RotatorCW
	RotatorCCW
	Push
	Slide
	Trash
	Enemy
)

// CellInfo holds static metadata about a cell type.
// Sides is the number of visually distinct facings; the engine ignores it.
type CellInfo struct {
	Type        CellType
	Name        string
	Description string
	Sides       int
	Texture     string
}

var cellInfos = [...]CellInfo{
	{Wall, "Wall", "A solid wall that can't be moved by anything.", 1, "wall"},
	{Mover, "Mover", "Pushes the cells in front of it.", 4, "mover"},
	{Generator, "Generator", "Generates the cell behind to its front.", 4, "generator"},
	{RotatorCW, "Rotator CW", "Rotates all touching cells clockwise.", 1, "rotator_cw"},
	{RotatorCCW, "Rotator CCW", "Rotates all touching cells counter-clockwise.", 1, "rotator_ccw"},
	{Push, "Push", "A normal cell that does nothing.", 1, "push"},
	{Slide, "Slide", "Like push cell but can only be moved in two directions.", 2, "slide"},
	{Trash, "Trash", "Trashes all cells that get moved into it.", 1, "trash"},
	{Enemy, "Enemy", "Destroys itself together with the cell moved into it.", 1, "enemy"},
}

// CellTypes returns all cell types in id order.
func CellTypes() []CellType {
	types := make([]CellType, len(cellInfos))
	for i, info := range cellInfos {
		types[i] = info.Type
	}
	return types
}

// Valid reports whether t is a known cell type.
func (t CellType) Valid() bool {
	return t >= Wall && t <= Enemy
}

// Info returns the metadata for t. Unknown types return a zero CellInfo.
func (t CellType) Info() CellInfo {
	if !t.Valid() {
		return CellInfo{}
	}
	return cellInfos[t-1]
}

// String returns the display name of the cell type.
func (t CellType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("CellType(%d)", uint8(t))
	}
	return cellInfos[t-1].Name
}

// ParseCellType looks a type up by its texture name ("rotator_cw") or display name ("Rotator CW").
func ParseCellType(name string) (CellType, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, info := range cellInfos {
		if key == info.Texture || key == strings.ToLower(info.Name) {
			return info.Type, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCellType, name)
}

// Cell is the packed per-slot state: a type, a facing and the per-tick updated flag.
// Cells are values; moving one copies it into a new slot.
type Cell struct {
	typ     CellType
	dir     Direction
	updated bool
}

// NewCell builds a cell, rejecting unknown types and directions.
func NewCell(t CellType, d Direction) (Cell, error) {
	if !t.Valid() {
		return Cell{}, fmt.Errorf("%w: %d", ErrUnknownCellType, uint8(t))
	}
	if !d.Valid() {
		return Cell{}, fmt.Errorf("machine: invalid direction %d", uint8(d))
	}
	return Cell{typ: t, dir: d}, nil
}

// C builds a cell from constants known to be valid. It panics otherwise,
// so it belongs in tests and tables, not in decoding paths.
func C(t CellType, d Direction) Cell {
	c, err := NewCell(t, d)
	if err != nil {
		panic(err)
	}
	return c
}

// Type returns the cell type.
func (c Cell) Type() CellType { return c.typ }

// Direction returns the facing.
func (c Cell) Direction() Direction { return c.dir }

// Updated reports whether the cell already acted this tick.
func (c Cell) Updated() bool { return c.updated }

// SetDirection changes the facing in place.
func (c *Cell) SetDirection(d Direction) { c.dir = d % 4 }

// SetUpdated sets the per-tick flag.
func (c *Cell) SetUpdated(v bool) { c.updated = v }

// Same reports behavioral equality: type and direction match, the updated flag is ignored.
func (c Cell) Same(o Cell) bool {
	return c.typ == o.typ && c.dir == o.dir
}

// String returns a compact representation like "Mover>Right".
func (c Cell) String() string {
	return c.typ.String() + ">" + c.dir.String()
}
