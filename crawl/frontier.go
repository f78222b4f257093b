package crawl

import (
	"sync"

	"github.com/docpack/docpack"
	"github.com/docpack/docpack/bloom"
)

// Sizing for the Bloom pre-filter in front of the exact visited set.
const (
	frontierExpectedPaths = 10000
	frontierFPRate        = 0.01
)

// Compile-time interface verification.
var _ docpack.Frontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with exact per-path
// deduplication. A Bloom filter screens the frequent negative lookups that
// link discovery generates; the exact set always decides, so a false
// positive can never drop a path. Safe for concurrent use by multiple
// goroutines.
type Frontier struct {
	mu    sync.Mutex
	maybe *bloom.Filter
	seen  map[string]struct{}
	queue []docpack.PageTask
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		maybe: bloom.NewFilter(frontierExpectedPaths, frontierFPRate),
		seen:  make(map[string]struct{}),
	}
}

// Offer adds a task to the queue.
// Returns false if the path has already been offered. A path enters the
// queue at most once, which is what keeps two workers from ever fetching
// the same page.
func (f *Frontier) Offer(task docpack.PageTask) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.maybe.Test(task.Path) {
		if _, ok := f.seen[task.Path]; ok {
			return false
		}
	}

	f.maybe.Add(task.Path)
	f.seen[task.Path] = struct{}{}
	f.queue = append(f.queue, task)
	return true
}

// Claim removes and returns the oldest queued task.
// Returns false if the queue is empty.
func (f *Frontier) Claim() (docpack.PageTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return docpack.PageTask{}, false
	}
	task := f.queue[0]
	f.queue = f.queue[1:]
	return task, true
}

// Pending returns the number of queued, unclaimed tasks.
func (f *Frontier) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the path has been offered before.
func (f *Frontier) Seen(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.seen[path]
	return ok
}

// Visited returns the number of distinct paths offered so far.
func (f *Frontier) Visited() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}
