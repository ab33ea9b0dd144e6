// Package history records verification runs in a SQLite database so that a
// fix can be tracked across repeated checks.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/fixcheck/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Run is a stored summary of one verification
type Run struct {
	ID           string
	Manifest     string
	Target       string
	Passed       bool
	PassedChecks int
	TotalChecks  int
	CheckedAt    time.Time
}

// Store manages the run history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps :memory: databases alive across queries
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a result with its outcomes. A run id is assigned when the
// result has none; the id is written back to result.RunID.
func (s *Store) Record(ctx context.Context, result *models.Result) error {
	if result.RunID == "" {
		result.RunID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, manifest, target, passed, passed_checks, total_checks, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.Manifest, result.Target, result.Passed,
		result.PassedCount(), len(result.Outcomes), result.CheckedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, position, label, pattern, expect, matched, passed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range result.Outcomes {
		if _, err := stmt.ExecContext(ctx, result.RunID, i, o.Label, o.Pattern, string(o.Expect), o.Matched, o.Passed); err != nil {
			return fmt.Errorf("insert outcome %q: %w", o.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A target filter of "" matches all.
func (s *Store) Recent(ctx context.Context, target string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, manifest, target, passed, passed_checks, total_checks, checked_at FROM runs`
	var args []interface{}
	if target != "" {
		query += ` WHERE target = ?`
		args = append(args, target)
	}
	query += ` ORDER BY checked_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Manifest, &r.Target, &r.Passed, &r.PassedChecks, &r.TotalChecks, &r.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Outcomes returns the stored outcomes of one run in check order
func (s *Store) Outcomes(ctx context.Context, runID string) ([]models.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, pattern, expect, matched, passed FROM outcomes WHERE run_id = ? ORDER BY position`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.Outcome
	for rows.Next() {
		var o models.Outcome
		var expect string
		if err := rows.Scan(&o.Label, &o.Pattern, &expect, &o.Matched, &o.Passed); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Expect = models.Expectation(expect)
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// FindRun returns the run whose id starts with prefix. The prefix must be
// unambiguous.
func (s *Store) FindRun(ctx context.Context, prefix string) (*Run, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("run id is required")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, manifest, target, passed, passed_checks, total_checks, checked_at
		 FROM runs WHERE id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Manifest, &r.Target, &r.Passed, &r.PassedChecks, &r.TotalChecks, &r.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("no run with id %q", prefix)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("run id %q is ambiguous", prefix)
	}
}
