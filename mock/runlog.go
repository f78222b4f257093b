package mock

import (
	"context"

	"github.com/docpack/docpack"
)

var _ docpack.RunLog = (*RunLog)(nil)

// RunLog is a mock implementation of docpack.RunLog.
type RunLog struct {
	RecordRunFn       func(ctx context.Context, run *docpack.Run, pages []docpack.PageRecord) error
	RecentRunsFn      func(ctx context.Context, limit int) ([]*docpack.Run, error)
	FindPageRecordsFn func(ctx context.Context, runID string) ([]docpack.PageRecord, error)
}

func (l *RunLog) RecordRun(ctx context.Context, run *docpack.Run, pages []docpack.PageRecord) error {
	return l.RecordRunFn(ctx, run, pages)
}

func (l *RunLog) RecentRuns(ctx context.Context, limit int) ([]*docpack.Run, error) {
	return l.RecentRunsFn(ctx, limit)
}

func (l *RunLog) FindPageRecords(ctx context.Context, runID string) ([]docpack.PageRecord, error) {
	return l.FindPageRecordsFn(ctx, runID)
}
