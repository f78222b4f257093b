// Package crawl provides concurrent documentation crawling.
// A fixed pool of workers drains a deduplicating frontier, feeding every
// runtime-discovered path back in until no work remains.
package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/docpack/docpack"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Crawler defaults.
const (
	DefaultWorkers = 5
	DefaultDelay   = 300 * time.Millisecond
)

// Crawler fetches every page reachable from a set of seed tasks.
type Crawler struct {
	Pages docpack.PageFetcher

	// Frontier to drain. A fresh in-memory frontier is used when nil.
	Frontier docpack.Frontier

	// Workers is the fixed worker pool size. Defaults to DefaultWorkers.
	Workers int

	// Delay is each worker's pause between its own successive fetches.
	// Workers pace independently; total throughput scales with the pool.
	// Defaults to DefaultDelay. Negative disables pacing.
	Delay time.Duration

	// MaxPages caps dispatched fetches as a runaway-crawl guard.
	// Zero means no cap.
	MaxPages int

	// Logger receives fetch failure logs. Silent when nil.
	Logger *slog.Logger
}

// Result holds the outcome of a crawl operation.
type Result struct {
	// Pages are the successful results in completion order.
	Pages []*docpack.CrawlResult

	// Failed counts tasks whose fetch failed. Failed tasks are dropped,
	// never retried.
	Failed int

	// Bytes is the total markdown size across successful pages.
	Bytes int
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	Section   string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// fetchOutcome holds the outcome of processing a single task.
type fetchOutcome struct {
	task   docpack.PageTask
	result *docpack.CrawlResult
	err    error
}

// Crawl drains the frontier seeded with the given tasks and returns every
// successfully fetched page in completion order. The crawl terminates when
// the frontier is empty and no worker holds in-flight work. On context
// cancellation the partial result is returned along with ctx's error.
func (c *Crawler) Crawl(ctx context.Context, seeds []docpack.PageTask, progress ProgressFunc) (*Result, error) {
	frontier := c.Frontier
	if frontier == nil {
		frontier = NewFrontier()
	}
	for _, seed := range seeds {
		frontier.Offer(seed)
	}

	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	delay := c.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: frontier.Pending()})
	}

	// Channels for worker coordination
	workCh := make(chan docpack.PageTask, workers)
	resultCh := make(chan fetchOutcome)

	// Start worker pool. Each worker owns its limiter, so pacing never
	// serializes the pool as a whole.
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			limiter := rate.NewLimiter(rate.Every(delay), 1)
			for task := range workCh {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
				res, err := c.Pages.FetchPage(gctx, task)
				select {
				case resultCh <- fetchOutcome{task: task, result: res, err: err}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	// Close result channel when all workers are done
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	// Coordinator state
	result := &Result{}
	dispatched := 0
	pending := 0
	completed := 0

	handle := func(out fetchOutcome) {
		completed++
		if out.err != nil {
			result.Failed++
			if c.Logger != nil {
				c.Logger.Error("fetch failed",
					"path", out.task.Path,
					"section", out.task.Section,
					"error", out.err,
				)
			}
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, Completed: completed, Path: out.task.Path, Section: out.task.Section, Error: out.err})
			}
			return
		}
		result.Pages = append(result.Pages, out.result)
		result.Bytes += len(out.result.Content)
		for _, p := range out.result.DiscoveredPaths {
			frontier.Offer(docpack.PageTask{Path: p, Section: docpack.SectionDiscovered})
		}
		if progress != nil {
			progress(ProgressEvent{Type: ProgressCompleted, Completed: completed, Path: out.task.Path, Section: out.task.Section})
		}
	}

	var next *docpack.PageTask
	if task, ok := frontier.Claim(); ok {
		next = &task
	}

coordinatorLoop:
	for {
		// Termination: nothing claimable, nothing in flight
		if next == nil && pending == 0 {
			break coordinatorLoop
		}
		if ctx.Err() != nil {
			break coordinatorLoop
		}

		if next != nil && (c.MaxPages <= 0 || dispatched < c.MaxPages) {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- *next:
				dispatched++
				pending++
				next = nil
			case out := <-resultCh:
				pending--
				handle(out)
			}
		} else if pending > 0 {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case out, ok := <-resultCh:
				if !ok {
					break coordinatorLoop
				}
				pending--
				handle(out)
			}
		} else {
			// Page cap reached with nothing in flight
			break coordinatorLoop
		}

		if next == nil {
			if task, ok := frontier.Claim(); ok {
				next = &task
			}
		}
	}

	// Signal workers to stop and drain remaining results
	close(workCh)

	drainTimeout := time.After(5 * time.Second)
drainLoop:
	for {
		select {
		case out, ok := <-resultCh:
			if !ok {
				break drainLoop
			}
			handle(out)
		case <-drainTimeout:
			break drainLoop
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed})
	}

	return result, ctx.Err()
}
