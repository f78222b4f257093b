package crawl

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/docpack/docpack"
)

// DefaultThinThreshold is the estimated-token floor under which a direct
// fetch is suspected to be a JavaScript shell and rendering kicks in.
const DefaultThinThreshold = 200

// Compile-time interface verification.
var _ docpack.PageFetcher = (*PageFetcher)(nil)

// PageFetcher turns one page task into a CrawlResult. It fetches the page
// directly first and falls back to full browser rendering when the direct
// result looks too thin to be the real content, keeping whichever
// rendition carries more.
type PageFetcher struct {
	// BaseURL is the site root that task paths resolve against.
	BaseURL string

	// Direct fetches raw HTML over plain HTTP.
	Direct docpack.Fetcher

	// Renderer fetches browser-rendered HTML. Nil disables the thin-page
	// fallback.
	Renderer docpack.Fetcher

	Extractor docpack.Extractor
	Links     docpack.LinkExtractor
	Converter docpack.Converter

	// ThinThreshold is the estimated-token bound for the render fallback.
	// Defaults to DefaultThinThreshold.
	ThinThreshold int
}

// Candidate is one fetched-and-converted rendition of a page.
type Candidate struct {
	HTML        string
	Markdown    string
	Title       string
	Description string
	Method      docpack.FetchMethod
}

// FetchPage implements docpack.PageFetcher.
func (f *PageFetcher) FetchPage(ctx context.Context, task docpack.PageTask) (*docpack.CrawlResult, error) {
	pageURL, err := f.pageURL(task.Path)
	if err != nil {
		return nil, err
	}

	direct, err := f.acquire(ctx, pageURL, f.Direct, docpack.FetchDirect)
	if err != nil {
		return nil, err
	}

	chosen := direct
	if f.Renderer != nil && docpack.EstimateTokens(direct.Markdown) < f.thinThreshold() {
		// A render failure keeps the direct result
		if rendered, err := f.acquire(ctx, pageURL, f.Renderer, docpack.FetchRendered); err == nil {
			chosen = ChooseContent(direct, rendered)
		}
	}

	title := chosen.Title
	if title == "" {
		title = lastSegment(task.Path)
	}

	var discovered []string
	if f.Links != nil {
		// Link discovery is best-effort; a page that won't parse for
		// links still produces content.
		if links, err := f.Links.ExtractLinks(chosen.HTML, pageURL); err == nil {
			discovered = links
		}
	}

	return &docpack.CrawlResult{
		URL:             pageURL,
		Path:            task.Path,
		Section:         task.Section,
		Title:           title,
		Description:     chosen.Description,
		Content:         chosen.Markdown,
		ContentHash:     ComputeHash(chosen.Markdown),
		DiscoveredPaths: discovered,
		CrawledAt:       time.Now().UTC(),
		FetchMethod:     chosen.Method,
	}, nil
}

func (f *PageFetcher) thinThreshold() int {
	if f.ThinThreshold <= 0 {
		return DefaultThinThreshold
	}
	return f.ThinThreshold
}

// acquire fetches one rendition of the page and runs it through extraction
// and conversion.
func (f *PageFetcher) acquire(ctx context.Context, pageURL string, fetcher docpack.Fetcher, method docpack.FetchMethod) (Candidate, error) {
	html, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return Candidate{}, err
	}
	extracted, err := f.Extractor.Extract(html)
	if err != nil {
		return Candidate{}, err
	}
	markdown, err := f.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{
		HTML:        html,
		Markdown:    strings.TrimSpace(markdown),
		Title:       extracted.Title,
		Description: extracted.Description,
		Method:      method,
	}, nil
}

// ChooseContent picks between the direct and rendered renditions of a
// page. The policy is size-only: whichever markdown estimates larger wins,
// and ties keep the direct result.
func ChooseContent(direct, rendered Candidate) Candidate {
	if docpack.EstimateTokens(rendered.Markdown) > docpack.EstimateTokens(direct.Markdown) {
		return rendered
	}
	return direct
}

// pageURL resolves a site-relative path against the fetcher's base URL.
func (f *PageFetcher) pageURL(path string) (string, error) {
	base, err := url.Parse(f.BaseURL)
	if err != nil {
		return "", docpack.Errorf(docpack.EINVALID, "invalid base URL %q: %v", f.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", docpack.Errorf(docpack.EINVALID, "base URL %q must be absolute", f.BaseURL)
	}
	return base.ResolveReference(&url.URL{Path: path}).String(), nil
}

// lastSegment returns the final path segment for title fallbacks.
func lastSegment(p string) string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return "index"
	}
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
