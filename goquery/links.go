package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docpack/docpack"
)

// Compile-time interface verification.
var _ docpack.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor discovers same-site documentation links in page HTML and
// returns them as site-relative paths.
type LinkExtractor struct {
	// PathPrefix scopes discovery. Links whose path falls outside the
	// prefix are ignored. Empty accepts any path on the page's host.
	PathPrefix string
}

// NewLinkExtractor creates a LinkExtractor scoped to the given path prefix.
func NewLinkExtractor(pathPrefix string) *LinkExtractor {
	return &LinkExtractor{PathPrefix: pathPrefix}
}

// ExtractLinks parses HTML and returns the paths of same-host links in
// document order, deduplicated by first occurrence.
func (e *LinkExtractor) ExtractLinks(html string, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var paths []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveLink(base, href)
		if resolved == nil {
			return
		}

		// External links (exact host match, subdomains are external)
		if resolved.Host != base.Host {
			return
		}

		path := resolved.Path
		if path == "" {
			path = "/"
		}
		if e.PathPrefix != "" && !strings.HasPrefix(path, e.PathPrefix) {
			return
		}

		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	})

	return paths, nil
}

// resolveLink resolves an href against the page URL. Fragments are
// stripped so anchor variants collapse onto one path, and links that
// resolve back to the page itself return nil.
func resolveLink(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Host == base.Host && resolved.Path == base.Path {
		return nil
	}
	return resolved
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
