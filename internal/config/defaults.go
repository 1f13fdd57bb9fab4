package config

import (
	_ "embed"
)

//go:embed defaults/viewer.yaml
var defaultViewerYAML []byte

// DefaultViewerConfig returns the default viewer configuration.
func DefaultViewerConfig() ViewerConfig {
	return ViewerConfig{
		TickMS:  200,
		Nerd:    false,
		Glyphs:  GlyphsUnicode,
		HUD:     true,
		Backend: BackendTea,
		Colors: map[string]string{
			"wall":        "#585858",
			"mover":       "#4C79D8",
			"generator":   "#02CD71",
			"rotator_cw":  "#E16701",
			"rotator_ccw": "#00CBB6",
			"push":        "#F6C239",
			"slide":       "#F6C239",
			"trash":       "#9B00CE",
			"enemy":       "#D00C22",
		},
	}
}

// DefaultViewerYAML returns the embedded default file, comments included.
func DefaultViewerYAML() []byte {
	return defaultViewerYAML
}
