// Package ingest drives full documentation ingestion runs: crawl every
// reachable page, chunk the results, and commit the artifact set atomically.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/docpack/docpack"
	"github.com/docpack/docpack/chunk"
	"github.com/docpack/docpack/crawl"
)

// DefaultFloorTokens is the size below which chunks are discarded outright.
// Fragments this small (stray badges, "Edit this page" stubs) carry no
// retrievable signal.
const DefaultFloorTokens = 25

// Pipeline wires one ingestion run end to end. A zero value is not usable;
// Crawler and Store must be set.
type Pipeline struct {
	Crawler *crawl.Crawler
	Store   docpack.ChunkStore

	// Tokens, when set, replaces the manifest's estimated corpus total with
	// exact counts. Counting failures fall back to the estimate per chunk.
	Tokens docpack.TokenCounter

	// RunLog, when set, records the run after a successful commit.
	// Recording failures are logged and otherwise ignored.
	RunLog docpack.RunLog

	// Logger receives run-level logs. Silent when nil.
	Logger *slog.Logger

	// Options bound chunk sizes.
	Options chunk.Options

	// FloorTokens overrides DefaultFloorTokens when positive.
	FloorTokens int

	// Progress receives crawl progress events.
	Progress crawl.ProgressFunc

	// DryRun stops after seed enumeration; nothing is fetched or written.
	DryRun bool
}

// Summary reports what one run produced.
type Summary struct {
	// Seeds are the catalog's flattened seed tasks in frontier order.
	Seeds []docpack.PageTask

	Pages       int
	Failed      int
	Chunks      int
	Dropped     int
	Bytes       int
	TotalTokens int

	// Sections lists manifest sections: catalog sections that produced at
	// least one page, in catalog order, then "Discovered" if any page was
	// found through link discovery.
	Sections []string

	Duration time.Duration
	DryRun   bool

	// RunID is set when the run was recorded in a run log.
	RunID string
}

// Run executes one ingestion run against the catalog. Catalog validation
// errors and storage failures are fatal; individual page or chunk failures
// only reduce the result. On any error after crawling begins the staged
// output is aborted, leaving previously committed artifacts untouched.
func (p *Pipeline) Run(ctx context.Context, cat *docpack.Catalog) (*Summary, error) {
	start := time.Now()

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	seeds := cat.Seeds()

	if p.DryRun {
		return &Summary{Seeds: seeds, DryRun: true, Duration: time.Since(start)}, nil
	}

	var failures []docpack.PageRecord
	progress := func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressFailed {
			failures = append(failures, docpack.PageRecord{
				Path:    event.Path,
				Section: event.Section,
				Error:   event.Error.Error(),
			})
		}
		if p.Progress != nil {
			p.Progress(event)
		}
	}

	crawled, err := p.Crawler.Crawl(ctx, seeds, progress)
	if err != nil {
		_ = p.Store.Abort()
		return nil, err
	}
	if len(crawled.Pages) == 0 {
		_ = p.Store.Abort()
		return nil, docpack.Errorf(docpack.EINTERNAL, "no pages could be fetched from %s", cat.BaseURL)
	}

	summary, err := p.process(ctx, cat, crawled)
	if err != nil {
		_ = p.Store.Abort()
		return nil, err
	}

	summary.Seeds = seeds
	summary.Failed = crawled.Failed
	summary.Bytes = crawled.Bytes
	summary.Duration = time.Since(start)

	if p.RunLog != nil {
		run := &docpack.Run{
			BaseURL:     cat.BaseURL,
			StartedAt:   start.UTC(),
			FinishedAt:  time.Now().UTC(),
			Pages:       summary.Pages,
			Failed:      summary.Failed,
			Chunks:      summary.Chunks,
			TotalTokens: summary.TotalTokens,
		}
		records := append(pageRecords(crawled.Pages), failures...)
		if err := p.RunLog.RecordRun(ctx, run, records); err != nil {
			if p.Logger != nil {
				p.Logger.Warn("run log unavailable", "error", err)
			}
		} else {
			summary.RunID = run.ID
		}
	}

	if p.Logger != nil {
		p.Logger.Info("run complete",
			"pages", summary.Pages,
			"failed", summary.Failed,
			"chunks", summary.Chunks,
			"tokens", summary.TotalTokens,
			"duration", summary.Duration,
		)
	}

	return summary, nil
}

// process chunks crawled pages, stages every artifact, and commits.
func (p *Pipeline) process(ctx context.Context, cat *docpack.Catalog, crawled *crawl.Result) (*Summary, error) {
	floor := p.FloorTokens
	if floor <= 0 {
		floor = DefaultFloorTokens
	}

	summary := &Summary{Pages: len(crawled.Pages)}
	manifest := &docpack.Manifest{
		GeneratedAt: time.Now().UTC(),
		PageCount:   len(crawled.Pages),
	}

	slugs := chunk.NewSlugTracker()
	pageSections := make(map[string]bool)

	for _, page := range crawled.Pages {
		pageSections[page.Section] = true

		slug := slugs.Slug(page.Title)
		built := chunk.Build(page, slug, p.Options)

		var kept []docpack.Chunk
		for _, c := range built {
			if c.TokenEstimate < floor {
				summary.Dropped++
				continue
			}
			kept = append(kept, c)
		}
		kept = chunk.Reindex(slug, kept)

		for i := range kept {
			if err := p.Store.SaveChunk(ctx, &kept[i]); err != nil {
				return nil, err
			}
			manifest.Chunks = append(manifest.Chunks, kept[i].Ref())
			manifest.TotalTokens += p.countTokens(ctx, kept[i].Content, kept[i].TokenEstimate)
		}
	}

	manifest.ChunkCount = len(manifest.Chunks)
	manifest.Sections = sectionList(cat, pageSections)

	if err := p.Store.SaveManifest(ctx, manifest); err != nil {
		return nil, err
	}
	if err := p.Store.Commit(); err != nil {
		return nil, err
	}

	summary.Chunks = manifest.ChunkCount
	summary.TotalTokens = manifest.TotalTokens
	summary.Sections = manifest.Sections
	return summary, nil
}

// countTokens returns the exact token count when a counter is configured,
// falling back to the estimate.
func (p *Pipeline) countTokens(ctx context.Context, text string, estimate int) int {
	if p.Tokens == nil {
		return estimate
	}
	n, err := p.Tokens.CountTokens(ctx, text)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Warn("token counting failed, using estimate", "error", err)
		}
		return estimate
	}
	return n
}

// sectionList orders manifest sections: catalog sections that produced
// pages, in catalog order, then the discovery tag if any discovered page
// completed.
func sectionList(cat *docpack.Catalog, produced map[string]bool) []string {
	var sections []string
	listed := make(map[string]bool)
	for _, s := range cat.Sections {
		if produced[s.Name] && !listed[s.Name] {
			listed[s.Name] = true
			sections = append(sections, s.Name)
		}
	}
	if produced[docpack.SectionDiscovered] && !listed[docpack.SectionDiscovered] {
		sections = append(sections, docpack.SectionDiscovered)
	}
	return sections
}

// pageRecords converts successful crawl results into run log records.
func pageRecords(pages []*docpack.CrawlResult) []docpack.PageRecord {
	records := make([]docpack.PageRecord, 0, len(pages))
	for _, page := range pages {
		records = append(records, docpack.PageRecord{
			Path:        page.Path,
			Section:     page.Section,
			Method:      page.FetchMethod,
			ContentHash: page.ContentHash,
			Tokens:      docpack.EstimateTokens(page.Content),
		})
	}
	return records
}
