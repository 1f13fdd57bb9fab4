// Package machine implements the cell machine simulation engine.
// It is UI-agnostic and deterministic: a Grid plus Update is the whole engine.
package machine

// Direction is one of the four grid-aligned facings.
// Values are quarter turns clockwise starting from Right.
type Direction uint8

const (
	Right Direction = iota
	Down
	Left
	Up
)

// Directions lists all directions in the order the tick engine visits them.
var Directions = [4]Direction{Right, Left, Up, Down}

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case Right:
		return "Right"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Up:
		return "Up"
	default:
		return "Unknown"
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d <= Up
}

// Vector returns the unit displacement for one step in this direction.
// Y grows upward, so Up is (0, 1).
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case Right:
		return 1, 0
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Up:
		return 0, 1
	default:
		return 0, 0
	}
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	return (d + 2) % 4
}

// Add rotates d by the quarter-turn offset o.
// Add(Down) is a clockwise turn, Add(Up) is counter-clockwise.
func (d Direction) Add(o Direction) Direction {
	return (d + o) % 4
}

// SameAxis reports whether d and o are both horizontal or both vertical.
func (d Direction) SameAxis(o Direction) bool {
	return d%2 == o%2
}

// ParseDirection converts a name like "right" or a digit "0".."3" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "right", "Right", "r", "0":
		return Right, true
	case "down", "Down", "d", "1":
		return Down, true
	case "left", "Left", "l", "2":
		return Left, true
	case "up", "Up", "u", "3":
		return Up, true
	default:
		return 0, false
	}
}
