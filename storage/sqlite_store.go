package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Run is one journaled transform invocation. The journal only records
// outcomes; it is never read back into an aggregation.
type Run struct {
	ID           string
	StartedAt    time.Time
	Source       string
	Destination  string
	Status       string
	RowCount     int
	WarningCount int
	Error        string
}

type runRow struct {
	ID           string `db:"id"`
	StartedAt    string `db:"started_at"`
	Source       string `db:"source"`
	Destination  string `db:"destination"`
	Status       string `db:"status"`
	RowCount     int    `db:"row_count"`
	WarningCount int    `db:"warning_count"`
	Error        string `db:"error"`
}

type SQLiteStore struct {
	db *sqlx.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS transform_runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	source TEXT NOT NULL,
	destination TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('success', 'failure')),
	row_count INTEGER NOT NULL CHECK(row_count >= 0),
	warning_count INTEGER NOT NULL CHECK(warning_count >= 0),
	error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_transform_runs_started_at ON transform_runs(started_at);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) InsertRun(ctx context.Context, run Run) error {
	const insertStmt = `
INSERT INTO transform_runs (
	id,
	started_at,
	source,
	destination,
	status,
	row_count,
	warning_count,
	error
) VALUES (:id, :started_at, :source, :destination, :status, :row_count, :warning_count, :error);`

	row := runRow{
		ID:           run.ID,
		StartedAt:    run.StartedAt.UTC().Format(time.RFC3339Nano),
		Source:       run.Source,
		Destination:  run.Destination,
		Status:       run.Status,
		RowCount:     run.RowCount,
		WarningCount: run.WarningCount,
		Error:        run.Error,
	}
	if _, err := s.db.NamedExecContext(ctx, insertStmt, row); err != nil {
		return fmt.Errorf("insert transform run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns all.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, source, destination, status, row_count, warning_count, error
FROM transform_runs
ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []runRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query transform runs: %w", err)
	}

	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		startedAt, err := time.Parse(time.RFC3339Nano, row.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at for run %s: %w", row.ID, err)
		}
		runs = append(runs, Run{
			ID:           row.ID,
			StartedAt:    startedAt,
			Source:       row.Source,
			Destination:  row.Destination,
			Status:       row.Status,
			RowCount:     row.RowCount,
			WarningCount: row.WarningCount,
			Error:        row.Error,
		})
	}
	return runs, nil
}
