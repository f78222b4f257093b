package crawl_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/docpack/docpack"
	"github.com/docpack/docpack/crawl"
	"github.com/docpack/docpack/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher records fetch attempts per path and serves canned results.
type countingFetcher struct {
	mu         sync.Mutex
	attempts   map[string]int
	discovered map[string][]string
	fail       map[string]bool
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{
		attempts:   make(map[string]int),
		discovered: make(map[string][]string),
		fail:       make(map[string]bool),
	}
}

func (f *countingFetcher) FetchPage(_ context.Context, task docpack.PageTask) (*docpack.CrawlResult, error) {
	f.mu.Lock()
	f.attempts[task.Path]++
	fail := f.fail[task.Path]
	links := f.discovered[task.Path]
	f.mu.Unlock()

	if fail {
		return nil, docpack.Errorf(docpack.EUNAVAILABLE, "fetch %s: connection refused", task.Path)
	}
	return &docpack.CrawlResult{
		URL:             "https://example.com" + task.Path,
		Path:            task.Path,
		Section:         task.Section,
		Title:           task.Path,
		Content:         "# " + task.Path + "\n\nbody",
		DiscoveredPaths: links,
		CrawledAt:       time.Now().UTC(),
		FetchMethod:     docpack.FetchDirect,
	}, nil
}

func (f *countingFetcher) attemptsFor(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[path]
}

func TestCrawler_Crawl_fetches_every_seed_exactly_once(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	c := &crawl.Crawler{Pages: fetcher, Workers: 3, Delay: -1}

	seeds := []docpack.PageTask{
		{Path: "/docs/a", Section: "Guides"},
		{Path: "/docs/b", Section: "Guides"},
		{Path: "/docs/c", Section: "Reference"},
	}

	result, err := c.Crawl(context.Background(), seeds, nil)

	require.NoError(t, err)
	require.Len(t, result.Pages, 3)
	assert.Equal(t, 0, result.Failed)
	for _, seed := range seeds {
		assert.Equal(t, 1, fetcher.attemptsFor(seed.Path), "path %s", seed.Path)
	}
}

func TestCrawler_Crawl_discovered_paths_feed_back_into_the_frontier(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	fetcher.discovered["/docs/a"] = []string{"/docs/b", "/docs/c"}
	fetcher.discovered["/docs/b"] = []string{"/docs/a"} // cycle back to the seed

	c := &crawl.Crawler{Pages: fetcher, Workers: 2, Delay: -1}

	result, err := c.Crawl(context.Background(), []docpack.PageTask{{Path: "/docs/a", Section: "Guides"}}, nil)

	require.NoError(t, err)
	require.Len(t, result.Pages, 3)

	sections := make(map[string]string)
	for _, page := range result.Pages {
		sections[page.Path] = page.Section
	}
	assert.Equal(t, "Guides", sections["/docs/a"])
	assert.Equal(t, docpack.SectionDiscovered, sections["/docs/b"])
	assert.Equal(t, docpack.SectionDiscovered, sections["/docs/c"])

	// The cycle must not trigger a second fetch of the seed
	assert.Equal(t, 1, fetcher.attemptsFor("/docs/a"))
}

func TestCrawler_Crawl_failed_fetches_are_dropped_without_retry(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	fetcher.fail["/docs/bad"] = true

	c := &crawl.Crawler{Pages: fetcher, Workers: 2, Delay: -1}

	var mu sync.Mutex
	var failedPaths []string
	progress := func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressFailed {
			mu.Lock()
			failedPaths = append(failedPaths, event.Path)
			mu.Unlock()
		}
	}

	seeds := []docpack.PageTask{
		{Path: "/docs/good", Section: "Guides"},
		{Path: "/docs/bad", Section: "Guides"},
	}

	result, err := c.Crawl(context.Background(), seeds, progress)

	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	assert.Equal(t, "/docs/good", result.Pages[0].Path)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, fetcher.attemptsFor("/docs/bad"), "failed fetch must not be retried")
	assert.Equal(t, []string{"/docs/bad"}, failedPaths)
}

func TestCrawler_Crawl_duplicate_seed_paths_collapse(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	c := &crawl.Crawler{Pages: fetcher, Workers: 2, Delay: -1}

	seeds := []docpack.PageTask{
		{Path: "/docs/shared", Section: "Guides"},
		{Path: "/docs/shared", Section: "Reference"},
	}

	result, err := c.Crawl(context.Background(), seeds, nil)

	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	assert.Equal(t, 1, fetcher.attemptsFor("/docs/shared"))

	// First-listed section wins for a shared path
	assert.Equal(t, "Guides", result.Pages[0].Section)
}

func TestCrawler_Crawl_visited_set_matches_distinct_paths(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	fetcher.discovered["/docs/a"] = []string{"/docs/b", "/docs/a", "/docs/b"}

	frontier := crawl.NewFrontier()
	c := &crawl.Crawler{Pages: fetcher, Frontier: frontier, Workers: 2, Delay: -1}

	result, err := c.Crawl(context.Background(), []docpack.PageTask{
		{Path: "/docs/a", Section: "Guides"},
		{Path: "/docs/a", Section: "Guides"},
	}, nil)

	require.NoError(t, err)
	assert.Len(t, result.Pages, 2)
	assert.Equal(t, 2, frontier.Visited(), "visited count tracks distinct paths only")
	assert.Equal(t, 0, frontier.Pending(), "crawl ends with an exhausted frontier")
}

func TestCrawler_Crawl_single_worker_paces_between_fetches(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	c := &crawl.Crawler{Pages: fetcher, Workers: 1, Delay: 50 * time.Millisecond}

	seeds := []docpack.PageTask{
		{Path: "/docs/a", Section: "Guides"},
		{Path: "/docs/b", Section: "Guides"},
		{Path: "/docs/c", Section: "Guides"},
	}

	start := time.Now()
	result, err := c.Crawl(context.Background(), seeds, nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, result.Pages, 3)
	// First fetch is immediate; the remaining two each wait the delay.
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}

func TestCrawler_Crawl_max_pages_caps_dispatch(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	c := &crawl.Crawler{Pages: fetcher, Workers: 1, Delay: -1, MaxPages: 2}

	seeds := []docpack.PageTask{
		{Path: "/docs/a", Section: "Guides"},
		{Path: "/docs/b", Section: "Guides"},
		{Path: "/docs/c", Section: "Guides"},
		{Path: "/docs/d", Section: "Guides"},
	}

	result, err := c.Crawl(context.Background(), seeds, nil)

	require.NoError(t, err)
	assert.Len(t, result.Pages, 2)
}

func TestCrawler_Crawl_progress_reports_start_and_finish(t *testing.T) {
	t.Parallel()

	fetcher := newCountingFetcher()
	c := &crawl.Crawler{Pages: fetcher, Workers: 2, Delay: -1}

	var mu sync.Mutex
	var events []crawl.ProgressEvent
	progress := func(event crawl.ProgressEvent) {
		mu.Lock()
		events = append(events, event)
		mu.Unlock()
	}

	seeds := []docpack.PageTask{
		{Path: "/docs/a", Section: "Guides"},
		{Path: "/docs/b", Section: "Guides"},
	}

	_, err := c.Crawl(context.Background(), seeds, progress)
	require.NoError(t, err)

	require.NotEmpty(t, events)
	assert.Equal(t, crawl.ProgressStarted, events[0].Type)
	assert.Equal(t, 2, events[0].Total)
	assert.Equal(t, crawl.ProgressFinished, events[len(events)-1].Type)
	assert.Equal(t, 2, events[len(events)-1].Completed)
}

func TestCrawler_Crawl_context_cancellation_returns_partial_results(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pages := &mock.PageFetcher{
		FetchPageFn: func(ctx context.Context, task docpack.PageTask) (*docpack.CrawlResult, error) {
			if task.Path == "/docs/slow" {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return &docpack.CrawlResult{
				URL:     "https://example.com" + task.Path,
				Path:    task.Path,
				Section: task.Section,
				Title:   task.Path,
				Content: "# fast",
			}, nil
		},
	}

	c := &crawl.Crawler{Pages: pages, Workers: 2, Delay: -1}

	// Cancel once the fast page has been recorded; the slow fetch is still
	// blocked at that point.
	progress := func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressCompleted && event.Path == "/docs/fast" {
			cancel()
		}
	}

	result, err := c.Crawl(ctx, []docpack.PageTask{
		{Path: "/docs/fast", Section: "Guides"},
		{Path: "/docs/slow", Section: "Guides"},
	}, progress)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, len(result.Pages), 1, "completed pages survive cancellation")
}

func TestCrawler_Crawl_results_count_bytes(t *testing.T) {
	t.Parallel()

	pages := &mock.PageFetcher{
		FetchPageFn: func(_ context.Context, task docpack.PageTask) (*docpack.CrawlResult, error) {
			return &docpack.CrawlResult{
				URL:     "https://example.com" + task.Path,
				Path:    task.Path,
				Section: task.Section,
				Content: "0123456789",
			}, nil
		},
	}

	c := &crawl.Crawler{Pages: pages, Workers: 1, Delay: -1}

	seeds := make([]docpack.PageTask, 0, 3)
	for i := 0; i < 3; i++ {
		seeds = append(seeds, docpack.PageTask{Path: fmt.Sprintf("/docs/%d", i), Section: "Guides"})
	}

	result, err := c.Crawl(context.Background(), seeds, nil)

	require.NoError(t, err)
	assert.Equal(t, 30, result.Bytes)
}
