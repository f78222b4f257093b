package mock

import "github.com/docpack/docpack"

var _ docpack.Frontier = (*Frontier)(nil)

// Frontier is a mock implementation of docpack.Frontier.
type Frontier struct {
	OfferFn   func(task docpack.PageTask) bool
	ClaimFn   func() (docpack.PageTask, bool)
	PendingFn func() int
	SeenFn    func(path string) bool
	VisitedFn func() int
}

func (f *Frontier) Offer(task docpack.PageTask) bool {
	return f.OfferFn(task)
}

func (f *Frontier) Claim() (docpack.PageTask, bool) {
	return f.ClaimFn()
}

func (f *Frontier) Pending() int {
	return f.PendingFn()
}

func (f *Frontier) Seen(path string) bool {
	return f.SeenFn(path)
}

func (f *Frontier) Visited() int {
	return f.VisitedFn()
}
