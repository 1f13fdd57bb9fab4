// Package storage keeps the run history in SQLite through the pure-Go
// modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one recorded simulation run.
type Run struct {
	ID         int64
	LevelID    string
	Ticks      uint64
	TPS        int
	Duration   time.Duration
	StartCells int
	EndCells   int
	Backend    string // "headless", "tea", "tcell", "ssh"
	CreatedAt  time.Time
}

// LevelStats contains aggregated statistics for one level.
type LevelStats struct {
	LevelID    string
	Runs       int
	TotalTicks int64
	BestTPS    int
	LastRun    time.Time
}

// Open opens the database at dbPath, creating it and its parent
// directories when missing, and brings the schema up to date.
// A leading "~/" is expanded to the home directory.
func Open(dbPath string) (*Store, error) {
	if rest, ok := strings.CutPrefix(dbPath, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, rest)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	// between SSH sessions sharing the store.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate %s: %w", dbPath, err)
	}
	return s, nil
}

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		level_id TEXT NOT NULL,
		ticks INTEGER NOT NULL,
		tps INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		start_cells INTEGER NOT NULL DEFAULT 0,
		end_cells INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_level_id ON runs(level_id);`,

	`ALTER TABLE runs ADD COLUMN backend TEXT NOT NULL DEFAULT '';
	CREATE INDEX IF NOT EXISTS idx_runs_recent ON runs(created_at DESC, id DESC);`,
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	for i := version; i < len(migrations); i++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Version returns the schema version of the open database.
func (s *Store) Version() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (level_id, ticks, tps, duration_ms, start_cells, end_cells, backend)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.LevelID, int64(r.Ticks), r.TPS, r.Duration.Milliseconds(), r.StartCells, r.EndCells, r.Backend,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, level_id, ticks, tps, duration_ms, start_cells, end_cells, backend, created_at`

// RecentRuns returns the newest runs first. An empty levelID selects all levels.
func (s *Store) RecentRuns(levelID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs
		 WHERE ?1 = '' OR level_id = ?1
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?2`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: query runs: %w", err)
	}
	return runs, nil
}

// BestRun returns the run with the highest TPS for the level.
// Returns nil if the level has no runs.
func (s *Store) BestRun(levelID string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE level_id = ?
		 ORDER BY tps DESC, ticks DESC, id ASC
		 LIMIT 1`,
		levelID,
	)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ClearRuns deletes the runs of one level, or every run when levelID is empty.
// It returns the number of deleted runs.
func (s *Store) ClearRuns(levelID string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM runs WHERE ?1 = '' OR level_id = ?1`, levelID)
	if err != nil {
		return 0, fmt.Errorf("storage: clear runs: %w", err)
	}
	return res.RowsAffected()
}

// AllLevelStats retrieves statistics for every level that has been run.
func (s *Store) AllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*), SUM(ticks), MAX(tps), MAX(created_at)
		 FROM runs
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var st LevelStats
		var lastRun any
		if err := rows.Scan(&st.LevelID, &st.Runs, &st.TotalTicks, &st.BestTPS, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: scan stats: %w", err)
		}
		st.LastRun = parseTime(lastRun)
		stats[st.LevelID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: level stats: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r          Run
		ticks      int64
		durationMS int64
		createdAt  any
	)
	err := sc.Scan(&r.ID, &r.LevelID, &ticks, &r.TPS, &durationMS, &r.StartCells, &r.EndCells, &r.Backend, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	r.Ticks = uint64(ticks)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
