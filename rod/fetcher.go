// Package rod provides a browser-rendering implementation of docpack.Fetcher
// using Chrome automation, for documentation sites that ship an HTML shell
// and paint their content with JavaScript.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docpack/docpack"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultSettleDelay is the pause after the load event before the HTML is
// captured, giving client-side routers time to paint.
const DefaultSettleDelay = 1500 * time.Millisecond

// DefaultFetchTimeout bounds a single render, navigation included.
const DefaultFetchTimeout = 20 * time.Second

// DefaultRecycleAfter is the number of pages rendered before the browser
// process is relaunched. Chrome accumulates memory under sustained load
// and never returns to baseline, so long crawls need fresh processes.
const DefaultRecycleAfter = 75

// Ensure Fetcher implements docpack.Fetcher at compile time.
var _ docpack.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// The underlying browser is relaunched periodically to bound memory growth.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	settleDelay  time.Duration
	fetchTimeout time.Duration
	recycleAfter int64

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	rendered int64
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithSettleDelay sets the pause between the load event and HTML capture.
// Defaults to DefaultSettleDelay. Zero disables the pause.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settleDelay = d
	}
}

// WithFetchTimeout sets the per-fetch timeout.
// Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// WithRecycleAfter sets how many pages are rendered before the browser is
// relaunched. Defaults to DefaultRecycleAfter.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		settleDelay:  DefaultSettleDelay,
		fetchTimeout: DefaultFetchTimeout,
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.launch(); err != nil {
		return nil, err
	}

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", docpack.Errorf(docpack.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	page, err := f.acquireBrowser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	// Bind the context so navigation and capture honor the timeout
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	// Let client-side routers paint before capturing
	if f.settleDelay > 0 {
		select {
		case <-time.After(f.settleDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	atomic.AddInt64(&f.rendered, 1)
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.shutdown()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}

// acquireBrowser returns the current browser, relaunching it once the
// render count reaches the recycle threshold.
func (f *Fetcher) acquireBrowser() *rod.Browser {
	f.mu.Lock()
	defer f.mu.Unlock()

	if atomic.LoadInt64(&f.rendered) >= f.recycleAfter {
		f.recycle()
	}

	return f.browser
}

// launch starts a new browser instance with stability flags.
// Must be called with mu held.
func (f *Fetcher) launch() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = lnchr
	return nil
}

// shutdown closes the current browser and kills the launcher.
// Must be called with mu held.
func (f *Fetcher) shutdown() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}

// recycle starts a fresh browser and closes the old one. If launching the
// new browser fails, the old browser is kept.
// Must be called with mu held.
func (f *Fetcher) recycle() {
	oldBrowser := f.browser
	oldLauncher := f.launcher
	f.browser = nil
	f.launcher = nil

	if err := f.launch(); err != nil {
		// Keep serving the old browser when the relaunch fails
		f.browser = oldBrowser
		f.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	atomic.StoreInt64(&f.rendered, 0)
}
