// Package registry maps level IDs to factories. Level packs such as
// levels/builtin register from init, and the CLI, menu and SSH server
// look levels up here by ID.
package registry

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/cellmachine/internal/levels"
)

// ErrUnknownLevel is returned by Create for IDs that were never registered.
var ErrUnknownLevel = errors.New("registry: unknown level")

// LevelInfo describes a registered level without building its grid.
type LevelInfo struct {
	ID          string
	Title       string
	Description string
	Width       int
	Height      int
}

// Factory produces a fresh copy of a level on every call.
type Factory func() (levels.Level, error)

type entry struct {
	info    LevelInfo
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
)

// Register adds a level under id.
// The factory runs once here, so a broken level panics at startup instead of
// failing when picked. Registering an id twice panics too.
func Register(id string, f Factory) {
	lvl, err := f()
	if err != nil {
		panic(fmt.Sprintf("registry: level %q: %v", id, err))
	}
	lvl.ID = id // Title falls back to it
	info := LevelInfo{
		ID:          id,
		Title:       lvl.Title(),
		Description: lvl.Description,
		Width:       lvl.Width,
		Height:      lvl.Height,
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := entries[id]; dup {
		panic(fmt.Sprintf("registry: level %q already registered", id))
	}
	entries[id] = entry{info: info, factory: f}
}

// List returns every registered level sorted by ID.
func List() []LevelInfo {
	mu.RLock()
	out := make([]LevelInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info)
	}
	mu.RUnlock()

	slices.SortFunc(out, func(a, b LevelInfo) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Create builds the level registered under id.
// The returned level's ID is always the registered one.
func Create(id string) (levels.Level, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()
	if !ok {
		return levels.Level{}, fmt.Errorf("%w %q", ErrUnknownLevel, id)
	}

	lvl, err := e.factory()
	if err != nil {
		return levels.Level{}, fmt.Errorf("registry: level %q: %w", id, err)
	}
	lvl.ID = id
	return lvl, nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := entries[id]
	return ok
}
