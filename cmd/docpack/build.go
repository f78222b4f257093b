package main

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/docpack/docpack"
	"github.com/docpack/docpack/chunk"
	"github.com/docpack/docpack/crawl"
	"github.com/docpack/docpack/fs"
	"github.com/docpack/docpack/goquery"
	"github.com/docpack/docpack/htmltomarkdown"
	"github.com/docpack/docpack/ingest"
	"github.com/docpack/docpack/readability"
	docslog "github.com/docpack/docpack/slog"
	"github.com/docpack/docpack/trafilatura"
	"github.com/docpack/docpack/yaml"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	cat, err := yaml.LoadCatalog(c.Catalog)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	base, err := url.Parse(cat.BaseURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: invalid base URL %q: %v\n", cat.BaseURL, err)
		return err
	}

	// Content extraction chain: CSS selectors first, trafilatura when no
	// selector matches, readability as the last resort.
	pages := &crawl.PageFetcher{
		BaseURL:       cat.BaseURL,
		Direct:        deps.Fetcher,
		Renderer:      deps.Renderer,
		Extractor:     goquery.NewExtractor(&trafilatura.Extractor{Fallback: readability.NewExtractor()}),
		Links:         goquery.NewLinkExtractor(base.Path),
		Converter:     htmltomarkdown.NewConverter(),
		ThinThreshold: c.ThinThreshold,
	}

	crawler := &crawl.Crawler{
		Pages:    docslog.NewLoggingPageFetcher(pages, deps.Logger),
		Workers:  c.Concurrency,
		Delay:    c.Delay,
		MaxPages: c.MaxPages,
		Logger:   deps.Logger,
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Crawling %d seed pages from %s\n", event.Total, cat.BaseURL)
		case crawl.ProgressCompleted:
			if c.Verbose {
				fmt.Fprintf(deps.Stdout, "  %4d  %s\n", event.Completed, crawl.TruncatePath(event.Path, 60))
			}
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.Path, event.Error)
		}
	}

	out := filepath.Clean(c.Out)
	pipeline := &ingest.Pipeline{
		Crawler: crawler,
		Store:   fs.NewStore(filepath.Dir(out), filepath.Base(out)),
		Tokens:  deps.Tokens,
		RunLog:  deps.RunLog,
		Logger:  deps.Logger,
		Options: chunk.Options{
			MinTokens: c.MinTokens,
			MaxTokens: c.MaxTokens,
		},
		Progress: progress,
		DryRun:   c.DryRun,
	}

	summary, err := pipeline.Run(deps.Ctx, cat)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	if summary.DryRun {
		for _, task := range summary.Seeds {
			fmt.Fprintf(deps.Stdout, "%s  [%s]\n", task.Path, task.Section)
		}
		fmt.Fprintf(deps.Stdout, "Dry run: %d seed pages, nothing fetched\n", len(summary.Seeds))
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Saved %d chunks from %d pages to %s (%s, %s)\n",
		summary.Chunks, summary.Pages, out,
		crawl.FormatBytes(summary.Bytes), crawl.FormatTokens(summary.TotalTokens))
	if summary.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "  %d pages failed\n", summary.Failed)
	}
	if summary.Dropped > 0 {
		fmt.Fprintf(deps.Stdout, "  %d thin chunks dropped\n", summary.Dropped)
	}
	if summary.RunID != "" {
		fmt.Fprintf(deps.Stdout, "  run recorded as %s\n", summary.RunID)
	}

	return nil
}
