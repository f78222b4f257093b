package docpack

import (
	"context"
	"time"
)

// FetchMethod records how a page's content was obtained.
type FetchMethod string

// Fetch methods.
const (
	FetchDirect   FetchMethod = "direct"
	FetchRendered FetchMethod = "rendered"
)

// SectionDiscovered tags tasks found through runtime link discovery rather
// than the seed catalog.
const SectionDiscovered = "Discovered"

// PageTask identifies a single page awaiting a crawl worker.
// Tasks are deduplicated by Path; Section names the catalog section (or
// SectionDiscovered) that first referenced the path.
type PageTask struct {
	Path    string
	Section string
}

// CrawlResult is the outcome of fetching one documentation page. It is
// created once by a crawl worker and never mutated afterwards.
type CrawlResult struct {
	URL             string      `json:"url"`
	Path            string      `json:"path"`
	Section         string      `json:"section"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	Content         string      `json:"content"` // Markdown
	ContentHash     string      `json:"contentHash"`
	DiscoveredPaths []string    `json:"discoveredPaths,omitempty"`
	CrawledAt       time.Time   `json:"crawledAt"`
	FetchMethod     FetchMethod `json:"fetchMethod"`
}

// Validate returns an error if the result is missing required fields.
func (r *CrawlResult) Validate() error {
	if r.Path == "" {
		return Errorf(EINVALID, "crawl result path required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "crawl result URL required")
	}
	return nil
}

// PageFetcher retrieves and converts a single documentation page.
// Implementations hide direct-vs-rendered fetch selection, content
// extraction, markdown conversion, and link discovery.
type PageFetcher interface {
	FetchPage(ctx context.Context, task PageTask) (*CrawlResult, error)
}
