package builtin

import (
	"io/fs"
	"testing"

	"github.com/vovakirdan/cellmachine/internal/levels"
	"github.com/vovakirdan/cellmachine/internal/machine"
	"github.com/vovakirdan/cellmachine/internal/registry"
)

func TestBuiltinsRegistered(t *testing.T) {
	for _, id := range []string{"intro", "clock", "factory", "collider", "stalemate"} {
		if !registry.Exists(id) {
			t.Errorf("builtin level %q not registered", id)
		}
	}
}

func TestBuiltinsBuildGrids(t *testing.T) {
	for _, info := range registry.List() {
		t.Run(info.ID, func(t *testing.T) {
			lvl, err := registry.Create(info.ID)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			g, err := lvl.ToGrid()
			if err != nil {
				t.Fatalf("ToGrid failed: %v", err)
			}
			if g.Count() != len(lvl.Cells) {
				t.Errorf("grid has %d cells, level lists %d", g.Count(), len(lvl.Cells))
			}
			for i := 0; i < 50; i++ {
				machine.Update(g)
			}
			if g.TickCount() != 50 {
				t.Errorf("TickCount() = %d, expected 50", g.TickCount())
			}
		})
	}
}

func TestStalemateHolds(t *testing.T) {
	lvl, err := registry.Create("stalemate")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	g, _ := lvl.ToGrid()
	machine.Update(g)
	settled := g.Clone()
	for i := 0; i < 10; i++ {
		machine.Update(g)
	}
	if !g.Equal(settled) {
		t.Errorf("opposed movers should stay locked:\n%s", g)
	}
	if c, _ := g.Get(5, 1); c.Type() != machine.Mover || c.Direction() != machine.Right {
		t.Errorf("(5,1) = %v, expected Mover>Right", c)
	}
}

func TestFactoryStream(t *testing.T) {
	lvl, err := registry.Create("factory")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	g, _ := lvl.ToGrid()
	for i := 0; i < 3; i++ {
		machine.Update(g)
	}
	// Three generated movers, each one step further down the column.
	for _, y := range []int{7, 6, 5} {
		if c, _ := g.Get(3, y); c.Type() != machine.Mover || c.Direction() != machine.Down {
			t.Errorf("(3,%d) = %v, expected Mover>Down", y, c)
		}
	}
}

func TestEmbeddedLevelsParse(t *testing.T) {
	sub, err := fs.Sub(levelFS, "levels")
	if err != nil {
		t.Fatal(err)
	}
	loader := levels.NewFSLoader(sub)
	lvls, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(loader.Skipped) != 0 {
		t.Errorf("embedded levels failed to parse: %v", loader.Skipped)
	}
	if len(lvls) != len(registry.List()) {
		t.Errorf("loaded %d levels, registry has %d", len(lvls), len(registry.List()))
	}
}
