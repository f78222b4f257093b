package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docpack/docpack"
)

// Ensure LoggingSitemapService implements docpack.SitemapService.
var _ docpack.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with debug logging.
type LoggingSitemapService struct {
	next   docpack.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next docpack.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverPaths delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverPaths(ctx context.Context, baseURL string, filter *docpack.PathFilter) (paths []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap discovery",
			"url", baseURL,
			"count", len(paths),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverPaths(ctx, baseURL, filter)
}
