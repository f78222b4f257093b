package docpack

import (
	"context"
	"time"
)

// Run summarizes one completed ingestion run.
type Run struct {
	ID          string
	BaseURL     string
	StartedAt   time.Time
	FinishedAt  time.Time
	Pages       int
	Failed      int
	Chunks      int
	TotalTokens int
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.BaseURL == "" {
		return Errorf(EINVALID, "run base URL required")
	}
	return nil
}

// PageRecord records the outcome of one page fetch within a run.
// Error is empty for successful fetches.
type PageRecord struct {
	RunID       string
	Path        string
	Section     string
	Method      FetchMethod
	ContentHash string
	Tokens      int
	Error       string
}

// RunLog records completed runs for later inspection. Logging a run is
// best-effort bookkeeping: callers treat failures as non-fatal.
type RunLog interface {
	// RecordRun persists a run summary and its page records.
	// Assigns run.ID and stamps record RunIDs.
	RecordRun(ctx context.Context, run *Run, pages []PageRecord) error

	// RecentRuns returns the most recent runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]*Run, error)

	// FindPageRecords returns the page records for a run in insertion order.
	// Returns ENOTFOUND if the run does not exist.
	FindPageRecords(ctx context.Context, runID string) ([]PageRecord, error)
}
