// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists run history: one row per batch run, one row per
// processed file. The ledger is bookkeeping only; the pipeline works the
// same with it disabled.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdfa-engine/pkg/types"
)

const dbFile = "conversions.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at dir/conversions.db and
// creates the schema if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			input_dir TEXT NOT NULL,
			converted INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			timed_out INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			rel_path TEXT NOT NULL,
			pages INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_run_id ON files(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_files_outcome ON files(outcome)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a new run row and returns its id.
func (s *Store) BeginRun(ctx context.Context, inputDir string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, input_dir) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339), inputDir)
	if err != nil {
		return 0, fmt.Errorf("recording run start: %w", err)
	}
	return res.LastInsertId()
}

// RecordFile appends one file outcome to the run.
func (s *Store) RecordFile(ctx context.Context, runID int64, r types.FileResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (run_id, rel_path, pages, outcome, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, r.RelPath, r.Pages, string(r.Outcome), r.Duration.Milliseconds(), r.Err)
	if err != nil {
		return fmt.Errorf("recording file result: %w", err)
	}
	return nil
}

// FinishRun stamps the run's end time and totals.
func (s *Store) FinishRun(ctx context.Context, runID int64, converted, skipped, failed, timedOut int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, converted = ?, skipped = ?, failed = ?, timed_out = ?
		 WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), converted, skipped, failed, timedOut, runID)
	if err != nil {
		return fmt.Errorf("recording run end: %w", err)
	}
	return nil
}

// Run summarizes one batch run.
type Run struct {
	ID         int64  `json:"id" yaml:"id"`
	StartedAt  string `json:"started_at" yaml:"started_at"`
	FinishedAt string `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	InputDir   string `json:"input_dir" yaml:"input_dir"`
	Converted  int    `json:"converted" yaml:"converted"`
	Skipped    int    `json:"skipped" yaml:"skipped"`
	Failed     int    `json:"failed" yaml:"failed"`
	TimedOut   int    `json:"timed_out" yaml:"timed_out"`
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), input_dir,
			converted, skipped, failed, timed_out
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.InputDir,
			&r.Converted, &r.Skipped, &r.Failed, &r.TimedOut); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunByID returns a single run.
func (s *Store) RunByID(ctx context.Context, runID int64) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), input_dir,
			converted, skipped, failed, timed_out
		 FROM runs WHERE id = ?`, runID).
		Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.InputDir,
			&r.Converted, &r.Skipped, &r.Failed, &r.TimedOut)
	if err == sql.ErrNoRows {
		return r, fmt.Errorf("run %d not found in ledger", runID)
	}
	if err != nil {
		return r, fmt.Errorf("querying run %d: %w", runID, err)
	}
	return r, nil
}

// FilesForRun returns the file outcomes of one run in processing order.
func (s *Store) FilesForRun(ctx context.Context, runID int64) ([]types.FileResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rel_path, pages, outcome, duration_ms, COALESCE(error, '')
		 FROM files WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files for run %d: %w", runID, err)
	}
	defer rows.Close()

	var results []types.FileResult
	for rows.Next() {
		var (
			r  types.FileResult
			ms int64
		)
		if err := rows.Scan(&r.RelPath, &r.Pages, &r.Outcome, &ms, &r.Err); err != nil {
			return nil, fmt.Errorf("scanning file result: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}
