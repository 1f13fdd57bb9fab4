// Package builtin embeds the levels shipped with the binary and registers
// them with the level registry. Import it for side effects.
package builtin

import (
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/vovakirdan/cellmachine/internal/levels"
	"github.com/vovakirdan/cellmachine/internal/registry"
)

//go:embed levels/*
var levelFS embed.FS

func init() {
	entries, err := fs.ReadDir(levelFS, "levels")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		data, err := levelFS.ReadFile(path.Join("levels", name))
		if err != nil {
			panic(err)
		}
		ext := path.Ext(name)
		id := strings.TrimSuffix(name, ext)
		registry.Register(id, factory(data, ext))
	}
}

// factory reparses the embedded bytes so callers never share cell slices.
func factory(data []byte, ext string) registry.Factory {
	return func() (levels.Level, error) {
		return levels.Parse(data, ext)
	}
}
