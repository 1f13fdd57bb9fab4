// Package config provides YAML-based viewer configuration loading
// and speed presets for the cell machine.
package config

import (
	"fmt"
	"strings"
)

// Glyph sets understood by the renderer.
const (
	GlyphsUnicode = "unicode"
	GlyphsASCII   = "ascii"
)

// Terminal backends.
const (
	BackendTea   = "tea"
	BackendTcell = "tcell"
)

// ViewerConfig contains all configuration for the interactive viewer
// and the headless runner.
type ViewerConfig struct {
	TickMS    int               `yaml:"tick_ms"`
	Nerd      bool              `yaml:"nerd"`
	Glyphs    string            `yaml:"glyphs"`
	HUD       bool              `yaml:"hud"`
	Backend   string            `yaml:"backend"`
	LevelsDir string            `yaml:"levels_dir"`
	Colors    map[string]string `yaml:"colors"` // texture name -> color

	Source string `yaml:"-"` // File the config was read from, or SourceEmbedded
}

// Validate normalizes the config and rejects unknown enum values.
func (c *ViewerConfig) Validate() error {
	if c.TickMS < 0 {
		return fmt.Errorf("config: tick_ms must not be negative, got %d", c.TickMS)
	}

	c.Glyphs = strings.ToLower(c.Glyphs)
	switch c.Glyphs {
	case "":
		c.Glyphs = GlyphsUnicode
	case GlyphsUnicode, GlyphsASCII:
	default:
		return fmt.Errorf("config: unknown glyph set %q", c.Glyphs)
	}

	c.Backend = strings.ToLower(c.Backend)
	switch c.Backend {
	case "":
		c.Backend = BackendTea
	case BackendTea, BackendTcell:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}

	return nil
}
