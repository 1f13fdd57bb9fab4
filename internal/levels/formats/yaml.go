package formats

import (
	"fmt"

	"github.com/vovakirdan/cellmachine/internal/machine"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
// A level either lists its cells or embeds a V1/V3 code; when both are
// present the code provides the base layout and the cells are painted on top.
type YAMLLevel struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Size        YAMLSize   `yaml:"size"`
	Code        string     `yaml:"code,omitempty"`
	Cells       []YAMLCell `yaml:"cells,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLCell represents a single cell in YAML format.
type YAMLCell struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Type string `yaml:"type"`
	Dir  string `yaml:"dir,omitempty"` // defaults to right
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	level := Level{Format: "yaml"}
	if yl.Code != "" {
		var err error
		if level, err = ParseCode(yl.Code); err != nil {
			return Level{}, fmt.Errorf("level %q code: %w", yl.ID, err)
		}
	}

	level.ID = yl.ID
	if yl.Name != "" {
		level.Name = yl.Name
	}
	if yl.Description != "" {
		level.Description = yl.Description
	}
	if yl.Size.W > 0 && yl.Size.H > 0 {
		if yl.Code != "" && (yl.Size.W != level.Width || yl.Size.H != level.Height) {
			return Level{}, fmt.Errorf("level %q: size %dx%d does not match code %dx%d",
				yl.ID, yl.Size.W, yl.Size.H, level.Width, level.Height)
		}
		level.Width, level.Height = yl.Size.W, yl.Size.H
	}
	if !machine.ValidSize(level.Width, level.Height) {
		return Level{}, fmt.Errorf("level %q: %w: %dx%d", yl.ID, machine.ErrInvalidSize, level.Width, level.Height)
	}

	for i, yc := range yl.Cells {
		ct, err := machine.ParseCellType(yc.Type)
		if err != nil {
			return Level{}, fmt.Errorf("level %q cell %d: %w", yl.ID, i, err)
		}
		dir := machine.Right
		if yc.Dir != "" {
			var ok bool
			if dir, ok = machine.ParseDirection(yc.Dir); !ok {
				return Level{}, fmt.Errorf("level %q cell %d: invalid direction %q", yl.ID, i, yc.Dir)
			}
		}
		if yc.X < 0 || yc.X >= level.Width || yc.Y < 0 || yc.Y >= level.Height {
			return Level{}, fmt.Errorf("level %q cell %d: (%d,%d) outside %dx%d",
				yl.ID, i, yc.X, yc.Y, level.Width, level.Height)
		}
		cell, err := machine.NewCell(ct, dir)
		if err != nil {
			return Level{}, err
		}
		level.Cells = append(level.Cells, Placement{X: yc.X, Y: yc.Y, Cell: cell})
	}

	return level, nil
}
