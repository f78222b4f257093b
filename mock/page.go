package mock

import (
	"context"

	"github.com/docpack/docpack"
)

var _ docpack.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of docpack.PageFetcher.
type PageFetcher struct {
	FetchPageFn func(ctx context.Context, task docpack.PageTask) (*docpack.CrawlResult, error)
}

func (f *PageFetcher) FetchPage(ctx context.Context, task docpack.PageTask) (*docpack.CrawlResult, error) {
	return f.FetchPageFn(ctx, task)
}
