// Package levels provides level loading for the cell machine.
// This package depends on machine but machine does not depend on levels.
package levels

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/cellmachine/internal/levels/formats"
	"github.com/vovakirdan/cellmachine/internal/machine"
)

// ErrNotFound is returned when no level matches the requested ID.
var ErrNotFound = errors.New("levels: level not found")

// Level represents a complete level definition.
type Level struct {
	ID          string
	Name        string
	Description string
	Format      string
	Width       int
	Height      int
	Cells       []formats.Placement
	FilePath    string
}

// ToGrid creates a fresh Grid from the level.
func (l *Level) ToGrid() (*machine.Grid, error) {
	g, err := machine.NewGrid(l.Width, l.Height)
	if err != nil {
		return nil, err
	}
	for _, p := range l.Cells {
		g.Set(p.X, p.Y, p.Cell)
	}
	return g, nil
}

// Title returns the name to show for the level, falling back to its ID.
func (l *Level) Title() string {
	if l.Name != "" {
		return l.Name
	}
	if l.ID != "" {
		return l.ID
	}
	return "Untitled"
}

// Decode parses a level code ("V1;..." or "V3;...") into a Level.
func Decode(code string) (Level, error) {
	parsed, err := formats.ParseCode(strings.TrimSpace(code))
	if err != nil {
		return Level{}, err
	}
	return fromParsed(parsed, ""), nil
}

// Parse decodes level data of the given extension.
func Parse(data []byte, ext string) (Level, error) {
	parsed, err := formats.Parse(data, ext)
	if err != nil {
		return Level{}, err
	}
	return fromParsed(parsed, ""), nil
}

func fromParsed(p formats.Level, path string) Level {
	return Level{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Format:      p.Format,
		Width:       p.Width,
		Height:      p.Height,
		Cells:       p.Cells,
		FilePath:    path,
	}
}

// LoadFile reads and parses a single level file from disk.
// Levels without an ID take the file name without extension.
func LoadFile(file string) (Level, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Level{}, fmt.Errorf("levels: %w", err)
	}
	return parseFile(data, file)
}

func parseFile(data []byte, file string) (Level, error) {
	ext := strings.ToLower(filepath.Ext(file))
	parsed, err := formats.Parse(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("levels: %s: %w", file, err)
	}
	lvl := fromParsed(parsed, file)
	if lvl.ID == "" {
		lvl.ID = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return lvl, nil
}

// Loader reads every level file in a file tree.
type Loader struct {
	fsys fs.FS
	root string // Prefix for Level.FilePath; empty for embedded trees

	// Skipped holds one error per file the last LoadAll could not parse.
	Skipped []error
}

// NewLoader reads levels below the directory root.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), root: root}
}

// NewFSLoader reads levels from fsys, such as an embed.FS.
func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadAll walks the tree and parses every file with a level extension.
// Files that fail to parse are recorded in Skipped instead of failing the walk.
// Levels are sorted by ID.
func (l *Loader) LoadAll() ([]Level, error) {
	l.Skipped = nil
	var out []Level

	err := fs.WalkDir(l.fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(path.Ext(name))) {
			return nil
		}
		data, err := fs.ReadFile(l.fsys, name)
		if err != nil {
			return err
		}
		lvl, err := parseFile(data, filepath.Join(l.root, filepath.FromSlash(name)))
		if err != nil {
			l.Skipped = append(l.Skipped, err)
			return nil
		}
		out = append(out, lvl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking %q: %w", l.root, err)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// LoadByID returns the level with the given ID, or ErrNotFound.
func (l *Loader) LoadByID(id string) (Level, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range all {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, lvl := range all {
		ids[i] = lvl.ID
	}
	return ids, nil
}

func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
