// Package history persists harness run results to a local SQLite database.
//
// Each invocation of the harness records one run row plus one row per
// evaluated example. Concurrent harness invocations serialize their writes
// through a file lock held beside the database.
package history

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mvaughn/solvercheck/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// RunRecord is one persisted harness invocation.
type RunRecord struct {
	ID        string
	Mode      string
	StartedAt time.Time
	Duration  time.Duration
	Passed    int
	Total     int
}

// ExampleRecord is one persisted example evaluation.
type ExampleRecord struct {
	RunID        string
	ExampleName  string
	LogPath      string
	LogMissing   bool
	Passed       bool
	MissingSpecs []string
	Checks       []models.CheckResult
}

// Store manages the SQLite run-history database.
type Store struct {
	db     *sql.DB
	dbPath string
	lock   *flock.Flock
}

// NewStore opens (creating if needed) the history database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if dbPath != ":memory:" {
		s.lock = flock.New(dbPath + ".lock")
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// withLock runs fn while holding the store's file lock, when one exists.
func (s *Store) withLock(fn func() error) error {
	if s.lock != nil {
		if err := s.lock.Lock(); err != nil {
			return fmt.Errorf("acquire history lock: %w", err)
		}
		defer s.lock.Unlock()
	}
	return fn()
}

// RecordRun persists a run and all of its example results.
func (s *Store) RecordRun(run models.RunResult) error {
	return s.withLock(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin history transaction: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(
			`INSERT INTO runs (id, mode, started_at, duration_ms, passed, total) VALUES (?, ?, ?, ?, ?, ?)`,
			run.RunID, run.Mode, run.StartedAt.UTC(), run.Duration.Milliseconds(), run.Passed(), run.Total(),
		)
		if err != nil {
			return fmt.Errorf("insert run %s: %w", run.RunID, err)
		}

		for _, ex := range run.Examples {
			checks, err := json.Marshal(ex.Checks)
			if err != nil {
				return fmt.Errorf("marshal checks for %s: %w", ex.ExampleName, err)
			}
			_, err = tx.Exec(
				`INSERT INTO example_results (run_id, example_name, log_path, log_missing, passed, missing_specs, checks)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				run.RunID, ex.ExampleName, ex.LogPath, ex.LogMissing, ex.Passed(),
				strings.Join(ex.Pending, "\n"), string(checks),
			)
			if err != nil {
				return fmt.Errorf("insert example %s: %w", ex.ExampleName, err)
			}
		}

		return tx.Commit()
	})
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, mode, started_at, duration_ms, passed, total
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.Mode, &r.StartedAt, &durationMS, &r.Passed, &r.Total); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun loads one run by ID or unique ID prefix, with its example results.
func (s *Store) GetRun(idPrefix string) (*RunRecord, []ExampleRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, mode, started_at, duration_ms, passed, total
		 FROM runs WHERE id LIKE ? ORDER BY started_at DESC`, idPrefix+"%")
	if err != nil {
		return nil, nil, fmt.Errorf("find run %s: %w", idPrefix, err)
	}
	defer rows.Close()

	var matches []RunRecord
	for rows.Next() {
		var r RunRecord
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.Mode, &r.StartedAt, &durationMS, &r.Passed, &r.Total); err != nil {
			return nil, nil, fmt.Errorf("scan run row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		matches = append(matches, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no run matches %q", idPrefix)
	}
	if len(matches) > 1 {
		return nil, nil, fmt.Errorf("run id prefix %q is ambiguous (%d matches)", idPrefix, len(matches))
	}
	run := matches[0]

	examples, err := s.loadExamples(run.ID)
	if err != nil {
		return nil, nil, err
	}
	return &run, examples, nil
}

// LatestRun loads the most recent run with its example results.
func (s *Store) LatestRun() (*RunRecord, []ExampleRecord, error) {
	runs, err := s.ListRuns(1)
	if err != nil {
		return nil, nil, err
	}
	if len(runs) == 0 {
		return nil, nil, fmt.Errorf("history is empty")
	}
	run := runs[0]
	examples, err := s.loadExamples(run.ID)
	if err != nil {
		return nil, nil, err
	}
	return &run, examples, nil
}

func (s *Store) loadExamples(runID string) ([]ExampleRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, example_name, log_path, log_missing, passed, missing_specs, checks
		 FROM example_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("load examples for run %s: %w", runID, err)
	}
	defer rows.Close()

	var examples []ExampleRecord
	for rows.Next() {
		var ex ExampleRecord
		var missing, checks string
		if err := rows.Scan(&ex.RunID, &ex.ExampleName, &ex.LogPath, &ex.LogMissing, &ex.Passed, &missing, &checks); err != nil {
			return nil, fmt.Errorf("scan example row: %w", err)
		}
		if missing != "" {
			ex.MissingSpecs = strings.Split(missing, "\n")
		}
		if err := json.Unmarshal([]byte(checks), &ex.Checks); err != nil {
			return nil, fmt.Errorf("unmarshal checks for %s: %w", ex.ExampleName, err)
		}
		examples = append(examples, ex)
	}
	return examples, rows.Err()
}

// Prune deletes all but the newest keep runs. keep <= 0 disables pruning.
func (s *Store) Prune(keep int) error {
	if keep <= 0 {
		return nil
	}
	return s.withLock(func() error {
		_, err := s.db.Exec(
			`DELETE FROM example_results WHERE run_id NOT IN
			   (SELECT id FROM runs ORDER BY started_at DESC, id LIMIT ?)`, keep)
		if err != nil {
			return fmt.Errorf("prune example results: %w", err)
		}
		_, err = s.db.Exec(
			`DELETE FROM runs WHERE id NOT IN
			   (SELECT id FROM runs ORDER BY started_at DESC, id LIMIT ?)`, keep)
		if err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
		return nil
	})
}
