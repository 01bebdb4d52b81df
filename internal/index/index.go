// Package index maintains a local SQLite catalog of enrichment runs, so
// corpus history survives across invocations without re-reading every
// document.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/couloir/tasklens/internal/enrich"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS enrichment_runs (
    id             TEXT PRIMARY KEY,
    task           TEXT NOT NULL,
    enriched_at    TEXT NOT NULL,
    ideal_steps    INTEGER NOT NULL,
    failed_steps   INTEGER NOT NULL,
    edit_precision REAL NOT NULL,
    files_changed  INTEGER NOT NULL,
    lines_added    INTEGER NOT NULL,
    lines_removed  INTEGER NOT NULL,
    tests_passed   INTEGER NOT NULL,
    tests_total    INTEGER NOT NULL,
    coverage       REAL
);

CREATE INDEX IF NOT EXISTS idx_runs_task ON enrichment_runs(task);
`

// Run is one recorded enrichment of one task.
type Run struct {
	ID            string    `json:"id"`
	Task          string    `json:"task"`
	EnrichedAt    time.Time `json:"enrichedAt"`
	IdealSteps    int       `json:"idealSteps"`
	FailedSteps   int       `json:"failedSteps"`
	EditPrecision float64   `json:"editPrecision"`
	FilesChanged  int       `json:"filesChanged"`
	LinesAdded    int       `json:"linesAdded"`
	LinesRemoved  int       `json:"linesRemoved"`
	TestsPassed   int       `json:"testsPassed"`
	TestsTotal    int       `json:"testsTotal"`
	Coverage      *float64  `json:"coverage"`
}

// FromResult flattens an enrichment result into an indexable run row.
func FromResult(taskName string, res *enrich.Result) Run {
	run := Run{
		Task:         taskName,
		FilesChanged: res.Patch.FilesChanged,
		LinesAdded:   res.Patch.LinesAdded,
		LinesRemoved: res.Patch.LinesRemoved,
		TestsPassed:  res.PreTests.Passed,
		TestsTotal:   res.PreTests.TotalTests,
		Coverage:     res.PreTests.Coverage,
	}
	if res.Ideal != nil {
		run.IdealSteps = res.Ideal.TotalSteps
		run.EditPrecision = res.Ideal.EditPrecision
	}
	if res.Failed != nil {
		run.FailedSteps = res.Failed.TotalSteps
	}
	return run
}

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

// Open opens the runs database at path, creating the file and its parent
// directory on first use.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %s: %w", p, err)
		}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating index schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts one run, assigning an ID and timestamp when absent, and
// returns the ID.
func (s *Store) Record(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.EnrichedAt.IsZero() {
		run.EnrichedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`INSERT INTO enrichment_runs
		(id, task, enriched_at, ideal_steps, failed_steps, edit_precision,
		 files_changed, lines_added, lines_removed, tests_passed, tests_total, coverage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Task, run.EnrichedAt.Format(time.RFC3339),
		run.IdealSteps, run.FailedSteps, run.EditPrecision,
		run.FilesChanged, run.LinesAdded, run.LinesRemoved,
		run.TestsPassed, run.TestsTotal, run.Coverage)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return run.ID, nil
}

// List returns recorded runs, newest first. A non-empty task filters to that
// task; a positive limit caps the result.
func (s *Store) List(task string, limit int) ([]Run, error) {
	query := `SELECT id, task, enriched_at, ideal_steps, failed_steps, edit_precision,
		files_changed, lines_added, lines_removed, tests_passed, tests_total, coverage
		FROM enrichment_runs`
	var args []interface{}
	if task != "" {
		query += " WHERE task = ?"
		args = append(args, task)
	}
	query += " ORDER BY enriched_at DESC, id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			enriched string
			coverage sql.NullFloat64
		)
		if err := rows.Scan(&run.ID, &run.Task, &enriched,
			&run.IdealSteps, &run.FailedSteps, &run.EditPrecision,
			&run.FilesChanged, &run.LinesAdded, &run.LinesRemoved,
			&run.TestsPassed, &run.TestsTotal, &coverage); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, enriched); err == nil {
			run.EnrichedAt = ts
		}
		if coverage.Valid {
			run.Coverage = &coverage.Float64
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
