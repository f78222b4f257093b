package docpack

// Frontier manages the crawl queue with per-path deduplication. It is the
// single piece of mutable state shared by crawl workers; implementations
// must be safe for concurrent use.
type Frontier interface {
	// Offer adds a task to the queue.
	// Returns false if the path has already been offered.
	Offer(task PageTask) bool

	// Claim removes and returns the oldest queued task.
	// Returns false if the queue is empty.
	Claim() (PageTask, bool)

	// Pending returns the number of queued, unclaimed tasks.
	Pending() int

	// Seen returns true if the path has been offered before.
	Seen(path string) bool

	// Visited returns the number of distinct paths offered so far. Once a
	// crawl drains the frontier this equals the number of fetch attempts.
	Visited() int
}
