package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ViewerFile is the config file name looked up in the search directories.
const ViewerFile = "viewer.yaml"

// SourceEmbedded is the Source of a config built from the embedded defaults.
const SourceEmbedded = "embedded"

// SearchPaths lists the files LoadViewer tries, in order, when no path is given.
func SearchPaths() []string {
	paths := []string{filepath.Join(DataDir(), "configs", ViewerFile)}
	return append(paths, filepath.Join("configs", ViewerFile))
}

// LoadViewer loads the viewer configuration from customPath, or from the first
// readable and valid file in SearchPaths, or from the embedded default.
// Keys missing from a file keep their default values.
//
// An explicit customPath must exist and parse; search path files that do not
// are skipped.
func LoadViewer(customPath string) (ViewerConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return ViewerConfig{}, fmt.Errorf("config: %w", err)
		}
		cfg, err := parseViewer(data)
		if err != nil {
			return ViewerConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		cfg.Source = customPath
		return cfg, nil
	}

	for _, p := range SearchPaths() {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if cfg, err := parseViewer(data); err == nil {
			cfg.Source = p
			return cfg, nil
		}
	}

	cfg, err := parseViewer(defaultViewerYAML)
	if err != nil {
		cfg = DefaultViewerConfig()
	}
	cfg.Source = SourceEmbedded
	return cfg, nil
}

func parseViewer(data []byte) (ViewerConfig, error) {
	cfg := DefaultViewerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ViewerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return ViewerConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes the config as YAML in the same layout LoadViewer reads.
func (c ViewerConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// DataDir returns ~/.cellmachine, or the current directory if home is unavailable.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".cellmachine")
}
