package machine

import "testing"

func TestUpdateIncrementsTick(t *testing.T) {
	g := MustGrid(4, 4)
	for i := uint64(1); i <= 3; i++ {
		Update(g)
		if g.TickCount() != i {
			t.Errorf("TickCount() = %d, expected %d", g.TickCount(), i)
		}
	}
}

func TestUpdateWallsOnly(t *testing.T) {
	g := MustGrid(3, 3)
	g.Set(0, 0, C(Wall, Right))
	g.Set(2, 1, C(Wall, Up))
	before := g.Clone()

	ran := UpdateWith(g, Options{})
	if ran != 0 {
		t.Errorf("no sub-phase should run on a wall-only grid, ran %b", ran)
	}
	if !g.Equal(before) {
		t.Error("wall-only grid should not change")
	}
	if g.TickCount() != 1 {
		t.Errorf("TickCount() = %d, expected 1", g.TickCount())
	}
}

func TestMoverPushesChain(t *testing.T) {
	g := row(C(Mover, Right), C(Push, Right), Cell{})
	Update(g)

	if typeAt(g, 0, 0) != 0 {
		t.Error("(0,0) should be empty")
	}
	if typeAt(g, 1, 0) != Mover {
		t.Errorf("(1,0) = %v, expected Mover", typeAt(g, 1, 0))
	}
	if typeAt(g, 2, 0) != Push {
		t.Errorf("(2,0) = %v, expected Push", typeAt(g, 2, 0))
	}
}

func TestMoverBlockedByWall(t *testing.T) {
	g := row(C(Mover, Right), C(Push, Right), C(Wall, Right))
	before := g.Clone()
	Update(g)

	if !g.Equal(before) {
		t.Error("grid should be unchanged when a wall blocks the chain")
	}
	if c := g.At(0, 0); c == nil || !c.Updated() {
		t.Error("mover should be marked updated")
	}
}

func TestMoverAtEdge(t *testing.T) {
	g := row(Cell{}, C(Mover, Right))
	Update(g)
	if typeAt(g, 1, 0) != Mover {
		t.Error("mover against the edge should stay")
	}
}

func TestMoverUp(t *testing.T) {
	g := MustGrid(1, 3)
	g.Set(0, 0, C(Mover, Up))
	Update(g)
	Update(g)
	if typeAt(g, 0, 2) != Mover {
		t.Error("mover should have climbed to the top row")
	}
}

func TestMoverTrainMovesOneStep(t *testing.T) {
	g := row(C(Mover, Right), C(Mover, Right), C(Mover, Right), Cell{}, Cell{}, Cell{})
	Update(g)

	want := []CellType{0, Mover, Mover, Mover, 0, 0}
	for x, ct := range want {
		if typeAt(g, x, 0) != ct {
			t.Errorf("(%d,0) = %v, expected %v", x, typeAt(g, x, 0), ct)
		}
	}
}

func TestMoverTrainLeft(t *testing.T) {
	g := row(Cell{}, Cell{}, C(Mover, Left), C(Mover, Left))
	Update(g)

	want := []CellType{0, Mover, Mover, 0}
	for x, ct := range want {
		if typeAt(g, x, 0) != ct {
			t.Errorf("(%d,0) = %v, expected %v", x, typeAt(g, x, 0), ct)
		}
	}
}

func TestOpposedMoversStall(t *testing.T) {
	g := row(Cell{}, C(Mover, Right), C(Mover, Left), Cell{})
	before := g.Clone()
	Update(g)
	if !g.Equal(before) {
		t.Error("opposed movers of equal force should not move")
	}
}

func TestMoverIntoTrash(t *testing.T) {
	g := row(C(Mover, Right), C(Trash, Right))
	Update(g)
	if typeAt(g, 0, 0) != 0 {
		t.Error("mover should be trashed")
	}
	if typeAt(g, 1, 0) != Trash {
		t.Error("trash should remain")
	}
}

func TestMoverIntoEnemy(t *testing.T) {
	g := row(C(Mover, Right), C(Enemy, Right))
	Update(g)
	if g.Count() != 0 {
		t.Errorf("mover and enemy should both be removed, %d cells remain", g.Count())
	}
}

func TestGeneratorCopiesCellBehind(t *testing.T) {
	g := row(C(Wall, Right), C(Generator, Right), Cell{})
	Update(g)

	if typeAt(g, 0, 0) != Wall {
		t.Error("source wall should be unchanged")
	}
	if typeAt(g, 1, 0) != Generator {
		t.Error("generator should stay in place")
	}
	if typeAt(g, 2, 0) != Wall {
		t.Errorf("(2,0) = %v, expected generated Wall", typeAt(g, 2, 0))
	}
	if c := g.At(1, 0); !c.Updated() {
		t.Error("generator should be marked updated")
	}
}

func TestGeneratorNothingBehind(t *testing.T) {
	g := row(Cell{}, C(Generator, Right), Cell{})
	Update(g)
	if g.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", g.Count())
	}
}

func TestGeneratorBlocked(t *testing.T) {
	g := row(C(Push, Right), C(Generator, Right))
	before := g.Clone()
	Update(g)
	if !g.Equal(before) {
		t.Error("generator facing the edge should not generate")
	}
}

func TestGeneratedMoverActsSameTick(t *testing.T) {
	g := row(C(Mover, Right), C(Generator, Right), Cell{}, Cell{})
	Update(g)

	want := []CellType{0, Mover, Generator, Mover}
	for x, ct := range want {
		if typeAt(g, x, 0) != ct {
			t.Errorf("(%d,0) = %v, expected %v", x, typeAt(g, x, 0), ct)
		}
	}
}

func TestGeneratorVertical(t *testing.T) {
	g := MustGrid(1, 3)
	g.Set(0, 2, C(Push, Right))
	g.Set(0, 1, C(Generator, Down))
	Update(g)
	if typeAt(g, 0, 0) != Push {
		t.Error("generator facing down should copy the cell above it")
	}
}

func TestRotatorCW(t *testing.T) {
	g := MustGrid(3, 3)
	g.Set(1, 1, C(RotatorCW, Right))
	g.Set(1, 0, C(Push, Right))
	g.Set(2, 1, C(Mover, Up))
	g.Set(0, 1, C(Wall, Left))
	Update(g)

	if c, _ := g.Get(1, 0); c.Direction() != Down {
		t.Errorf("below neighbor = %v, expected Down", c.Direction())
	}
	if c, _ := g.Get(0, 1); c.Direction() != Left {
		t.Error("wall neighbor should not rotate")
	}
	rot := g.At(1, 1)
	if rot.Direction() != Right {
		t.Errorf("rotator facing changed to %v", rot.Direction())
	}
	if !rot.Updated() {
		t.Error("rotator should be marked updated")
	}
	// The mover was turned to face Right before the movement sub-phase
	// and ran into the grid edge.
	if c, _ := g.Get(2, 1); c.Type() != Mover || c.Direction() != Right {
		t.Errorf("right neighbor = %v, expected Mover>Right", c)
	}
}

func TestRotatorCCW(t *testing.T) {
	g := MustGrid(3, 3)
	g.Set(1, 1, C(RotatorCCW, Right))
	g.Set(1, 2, C(Push, Right))
	g.Set(0, 1, C(Slide, Down))
	Update(g)

	if c, _ := g.Get(1, 2); c.Direction() != Up {
		t.Errorf("above neighbor = %v, expected Up", c.Direction())
	}
	if c, _ := g.Get(0, 1); c.Direction() != Right {
		t.Errorf("left neighbor = %v, expected Right", c.Direction())
	}
}

func TestRotatorTurnsFullCircle(t *testing.T) {
	g := MustGrid(2, 1)
	g.Set(0, 0, C(RotatorCW, Right))
	g.Set(1, 0, C(Push, Right))

	seen := []Direction{}
	for i := 0; i < 4; i++ {
		Update(g)
		c, _ := g.Get(1, 0)
		seen = append(seen, c.Direction())
	}
	want := []Direction{Down, Left, Up, Right}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("tick %d: direction = %v, expected %v", i+1, seen[i], want[i])
		}
	}
}

func TestUpdatedFlagsResetEachTick(t *testing.T) {
	g := row(C(Mover, Right), Cell{}, Cell{}, Cell{})
	Update(g)
	Update(g)
	if typeAt(g, 2, 0) != Mover {
		t.Error("mover should move again on the next tick")
	}
}

func TestSkipOptimizationDoesNotChangeResults(t *testing.T) {
	build := func() *Grid {
		g := MustGrid(8, 6)
		g.Set(0, 0, C(Mover, Right))
		g.Set(1, 0, C(Push, Right))
		g.Set(3, 0, C(Slide, Up))
		g.Set(0, 2, C(Wall, Right))
		g.Set(1, 2, C(Generator, Right))
		g.Set(5, 2, C(Trash, Right))
		g.Set(4, 4, C(RotatorCW, Right))
		g.Set(5, 4, C(Mover, Up))
		g.Set(2, 5, C(RotatorCCW, Right))
		g.Set(2, 4, C(Mover, Left))
		g.Set(7, 5, C(Enemy, Right))
		g.Set(7, 1, C(Mover, Up))
		return g
	}

	fast := build()
	full := build()
	for i := 0; i < 30; i++ {
		Update(fast)
		ran := UpdateWith(full, Options{DisableSkip: true})
		if ran != PhaseGenerate|PhaseRotate|PhaseMove {
			t.Fatalf("DisableSkip should run every phase, ran %b", ran)
		}
		if !fast.Equal(full) {
			t.Fatalf("grids diverged at tick %d", i+1)
		}
	}
	if fast.TickCount() != 30 || full.TickCount() != 30 {
		t.Errorf("tick counts = %d, %d; expected 30", fast.TickCount(), full.TickCount())
	}
}

func TestUpdateIsDeterministic(t *testing.T) {
	g := MustGrid(6, 6)
	g.Set(0, 0, C(Generator, Up))
	g.Set(0, 1, C(Mover, Right))
	g.Set(3, 3, C(RotatorCW, Right))
	g.Set(3, 4, C(Push, Right))

	a := g.Clone()
	b := g.Clone()
	for i := 0; i < 20; i++ {
		Update(a)
		Update(b)
	}
	if !a.Equal(b) {
		t.Error("identical grids should evolve identically")
	}
}
