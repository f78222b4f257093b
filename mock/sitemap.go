package mock

import (
	"context"

	"github.com/docpack/docpack"
)

var _ docpack.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docpack.SitemapService.
type SitemapService struct {
	DiscoverPathsFn func(ctx context.Context, baseURL string, filter *docpack.PathFilter) ([]string, error)
}

func (s *SitemapService) DiscoverPaths(ctx context.Context, baseURL string, filter *docpack.PathFilter) ([]string, error) {
	return s.DiscoverPathsFn(ctx, baseURL, filter)
}
