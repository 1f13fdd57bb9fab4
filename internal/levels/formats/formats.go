// Package formats provides pluggable level format parsers.
package formats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/cellmachine/internal/machine"
)

var (
	// ErrUnknownFormat is returned when input matches no known level format.
	ErrUnknownFormat = errors.New("formats: unknown level format")

	// ErrMalformedCode is returned for level codes that cannot be decoded.
	ErrMalformedCode = errors.New("formats: malformed level code")
)

// Placement is a cell at a grid position.
type Placement struct {
	X, Y int
	Cell machine.Cell
}

// Level represents a parsed level ready for use.
type Level struct {
	ID          string
	Name        string
	Description string
	Format      string
	Width       int
	Height      int
	Cells       []Placement
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".txt", ".level"}
}

// Parse detects the format of data and parses it.
// YAML documents are recognized by the extension; anything else is treated as a level code.
func Parse(data []byte, ext string) (Level, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".txt", ".level", "":
		return ParseCode(strings.TrimSpace(string(data)))
	default:
		return Level{}, fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
	}
}

// v3Types maps the type index used by level codes to engine cell types.
var v3Types = [9]machine.CellType{
	machine.Generator,
	machine.RotatorCW,
	machine.RotatorCCW,
	machine.Mover,
	machine.Slide,
	machine.Push,
	machine.Wall,
	machine.Enemy,
	machine.Trash,
}

// codeCell converts a code type index and rotation into a cell.
func codeCell(typeIndex, rotation int) (machine.Cell, error) {
	if typeIndex < 0 || typeIndex >= len(v3Types) {
		return machine.Cell{}, fmt.Errorf("%w: cell type index %d", ErrMalformedCode, typeIndex)
	}
	if rotation < 0 || rotation > 3 {
		return machine.Cell{}, fmt.Errorf("%w: rotation %d", ErrMalformedCode, rotation)
	}
	return machine.NewCell(v3Types[typeIndex], machine.Direction(rotation))
}
