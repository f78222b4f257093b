package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docpack/docpack"
)

// Ensure LoggingPageFetcher implements docpack.PageFetcher.
var _ docpack.PageFetcher = (*LoggingPageFetcher)(nil)

// LoggingPageFetcher wraps a PageFetcher with per-page debug logging.
type LoggingPageFetcher struct {
	next   docpack.PageFetcher
	logger *slog.Logger
}

// NewLoggingPageFetcher creates a new LoggingPageFetcher.
func NewLoggingPageFetcher(next docpack.PageFetcher, logger *slog.Logger) *LoggingPageFetcher {
	return &LoggingPageFetcher{next: next, logger: logger}
}

// FetchPage delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingPageFetcher) FetchPage(ctx context.Context, task docpack.PageTask) (result *docpack.CrawlResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"path", task.Path,
			"section", task.Section,
			"duration", time.Since(begin),
			"err", err,
		}
		if result != nil {
			attrs = append(attrs,
				"method", string(result.FetchMethod),
				"tokens", docpack.EstimateTokens(result.Content),
				"links", len(result.DiscoveredPaths),
			)
		}
		f.logger.Info("page", attrs...)
	}(time.Now())
	return f.next.FetchPage(ctx, task)
}
