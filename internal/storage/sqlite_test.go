package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndRecent(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{LevelID: "clock", Ticks: 100, TPS: 5, Duration: 20 * time.Second, StartCells: 9, EndCells: 9, Backend: "tea"},
		{LevelID: "factory", Ticks: 50, TPS: 200, Duration: 250 * time.Millisecond, StartCells: 5, EndCells: 12, Backend: "headless"},
		{LevelID: "clock", Ticks: 10, TPS: 3, Duration: 3 * time.Second, StartCells: 9, EndCells: 9, Backend: "tcell"},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(all))
	}
	// Newest first
	if all[0].Ticks != 10 || all[2].Ticks != 100 {
		t.Errorf("Runs not newest first: %+v", all)
	}
	if all[1].Duration != 250*time.Millisecond || all[1].EndCells != 12 || all[1].Backend != "headless" {
		t.Errorf("Fields not round-tripped: %+v", all[1])
	}

	clock, err := store.RecentRuns("clock", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(clock) != 2 {
		t.Errorf("Expected 2 clock runs, got %d", len(clock))
	}

	limited, _ := store.RecentRuns("", 1)
	if len(limited) != 1 {
		t.Errorf("Expected 1 run with limit, got %d", len(limited))
	}
}

func TestStoreBestRun(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestRun("clock")
	if err != nil {
		t.Fatalf("BestRun() failed: %v", err)
	}
	if best != nil {
		t.Errorf("Expected no best run for empty level, got %+v", best)
	}

	store.SaveRun(Run{LevelID: "clock", Ticks: 10, TPS: 5})
	store.SaveRun(Run{LevelID: "clock", Ticks: 20, TPS: 50})
	store.SaveRun(Run{LevelID: "clock", Ticks: 30, TPS: 7})
	store.SaveRun(Run{LevelID: "other", Ticks: 1, TPS: 999})

	best, err = store.BestRun("clock")
	if err != nil {
		t.Fatalf("BestRun() failed: %v", err)
	}
	if best == nil || best.TPS != 50 || best.Ticks != 20 {
		t.Errorf("Expected best run with 50 TPS, got %+v", best)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{LevelID: "clock", Ticks: 1})
	store.SaveRun(Run{LevelID: "clock", Ticks: 2})
	store.SaveRun(Run{LevelID: "factory", Ticks: 3})

	if n, err := store.ClearRuns("clock"); err != nil || n != 2 {
		t.Fatalf("ClearRuns() = %d, %v, expected 2 deleted", n, err)
	}
	if runs, _ := store.RecentRuns("clock", 10); len(runs) != 0 {
		t.Errorf("Expected 0 clock runs after clear, got %d", len(runs))
	}
	if runs, _ := store.RecentRuns("factory", 10); len(runs) != 1 {
		t.Error("Factory runs should not be affected by clearing clock")
	}

	if n, err := store.ClearRuns(""); err != nil || n != 1 {
		t.Fatalf("ClearRuns(\"\") = %d, %v, expected 1 deleted", n, err)
	}
	if runs, _ := store.RecentRuns("", 10); len(runs) != 0 {
		t.Errorf("Expected no runs after clearing all, got %d", len(runs))
	}
}

func TestStoreMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if v, err := store.Version(); err != nil || v != len(migrations) {
		t.Errorf("Version() = %d, %v, expected %d", v, err, len(migrations))
	}
	if _, err := store.SaveRun(Run{LevelID: "intro", Ticks: 4, Backend: "tea"}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	store.Close()

	// Reopening must not reapply migrations or lose rows.
	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	runs, err := store.RecentRuns("intro", 10)
	if err != nil || len(runs) != 1 || runs[0].Backend != "tea" {
		t.Errorf("runs after reopen = %+v, %v", runs, err)
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{LevelID: "clock", Ticks: 10, TPS: 5})
	store.SaveRun(Run{LevelID: "clock", Ticks: 15, TPS: 9})
	store.SaveRun(Run{LevelID: "factory", Ticks: 3, TPS: 1})

	stats, err := store.AllLevelStats()
	if err != nil {
		t.Fatalf("AllLevelStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 levels, got %d", len(stats))
	}
	clock := stats["clock"]
	if clock == nil || clock.Runs != 2 || clock.TotalTicks != 25 || clock.BestTPS != 9 {
		t.Errorf("Unexpected clock stats: %+v", clock)
	}
	if clock != nil && clock.LastRun.IsZero() {
		t.Error("LastRun should be set")
	}
}
