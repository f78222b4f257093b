package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/docpack/docpack"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docpack.RunLog = (*RunLogService)(nil)

// RunLogService implements docpack.RunLog using SQLite.
type RunLogService struct {
	db *DB
}

// NewRunLogService creates a new RunLogService.
func NewRunLogService(db *DB) *RunLogService {
	return &RunLogService{db: db}
}

// RecordRun persists a run summary and its page records. The run is assigned
// a fresh ID, which is also stamped onto every page record.
func (s *RunLogService) RecordRun(ctx context.Context, run *docpack.Run, pages []docpack.PageRecord) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, base_url, started_at, finished_at, pages, failed, chunks, total_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.BaseURL,
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339),
		run.Pages, run.Failed, run.Chunks, run.TotalTokens)
	if err != nil {
		return err
	}

	for i := range pages {
		pages[i].RunID = run.ID
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO page_fetches (run_id, position, path, section, method, content_hash, tokens, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, pages[i].Path, pages[i].Section, string(pages[i].Method),
			pages[i].ContentHash, pages[i].Tokens, pages[i].Error)
		if err != nil {
			return err
		}
	}

	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *RunLogService) RecentRuns(ctx context.Context, limit int) ([]*docpack.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT id, base_url, started_at, finished_at, pages, failed, chunks, total_tokens
		FROM runs
		ORDER BY started_at DESC, id
	`)
	appendPagination(&query, &args, limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*docpack.Run
	for rows.Next() {
		var run docpack.Run
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.BaseURL, &startedAt, &finishedAt,
			&run.Pages, &run.Failed, &run.Chunks, &run.TotalTokens); err != nil {
			return nil, err
		}

		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindPageRecords returns the page records for a run in insertion order.
func (s *RunLogService) FindPageRecords(ctx context.Context, runID string) ([]docpack.PageRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", runID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, path, section, method, content_hash, tokens, error
		FROM page_fetches
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []docpack.PageRecord
	for rows.Next() {
		var rec docpack.PageRecord
		var method string

		if err := rows.Scan(&rec.RunID, &rec.Path, &rec.Section, &method,
			&rec.ContentHash, &rec.Tokens, &rec.Error); err != nil {
			return nil, err
		}
		rec.Method = docpack.FetchMethod(method)

		records = append(records, rec)
	}

	return records, rows.Err()
}
