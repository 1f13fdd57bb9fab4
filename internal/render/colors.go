package render

import (
	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/machine"
)

// DefaultColors holds the foreground color of each cell type.
var DefaultColors = map[machine.CellType]core.Color{
	machine.Wall:       "#585858",
	machine.Mover:      "#4C79D8",
	machine.Generator:  "#02CD71",
	machine.RotatorCW:  "#E16701",
	machine.RotatorCCW: "#00CBB6",
	machine.Push:       "#F6C239",
	machine.Slide:      "#F6C239",
	machine.Trash:      "#9B00CE",
	machine.Enemy:      "#D00C22",
}

// Palette maps cell types to colors.
type Palette map[machine.CellType]core.Color

// NewPalette starts from the defaults and applies overrides keyed by
// cell type name ("rotator_cw" or "Rotator CW"). Invalid names and colors
// are returned so the caller can warn about them.
func NewPalette(overrides map[string]string) (Palette, []string) {
	p := make(Palette, len(DefaultColors))
	for t, c := range DefaultColors {
		p[t] = c
	}

	var bad []string
	for name, value := range overrides {
		t, err := machine.ParseCellType(name)
		if err != nil {
			bad = append(bad, name)
			continue
		}
		c, ok := core.ParseColor(value)
		if !ok {
			bad = append(bad, name)
			continue
		}
		p[t] = c
	}
	return p, bad
}

// Color returns the color for a cell type, or the default color when unset.
func (p Palette) Color(t machine.CellType) core.Color {
	if c, ok := p[t]; ok {
		return c
	}
	return core.ColorDefault
}
