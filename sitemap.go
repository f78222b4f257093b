package docpack

import (
	"context"
	"regexp"
)

// SitemapService discovers documentation paths from website sitemaps. It
// backs catalog bootstrapping: discovered paths become seed candidates.
type SitemapService interface {
	// DiscoverPaths returns the site-relative paths listed in the site's
	// sitemaps, in first-seen order. It checks robots.txt for Sitemap
	// directives first, then falls back to /sitemap.xml. Sitemap indexes
	// are resolved recursively.
	//
	// When baseURL carries a non-root path, only paths under that prefix
	// are returned. The filter can include/exclude paths by pattern; a
	// nil filter passes everything.
	DiscoverPaths(ctx context.Context, baseURL string, filter *PathFilter) ([]string, error)
}

// PathFilter specifies regex patterns for including/excluding paths.
type PathFilter struct {
	// Include patterns - if set, only paths matching at least one pattern
	// are included.
	Include []*regexp.Regexp

	// Exclude patterns - paths matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the path passes the filter.
// If the filter is nil, all paths pass.
func (f *PathFilter) Match(path string) bool {
	if f == nil {
		return true
	}

	// If include patterns exist, the path must match at least one
	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(path) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Check exclude patterns
	for _, re := range f.Exclude {
		if re.MatchString(path) {
			return false
		}
	}

	return true
}
