package docpack

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title: the first heading if present, otherwise the
	// document title. May be empty.
	Title string

	// Description is the page's meta description, if present.
	Description string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// The content HTML has boilerplate removed but preserves structure.
	Extract(html string) (*ExtractResult, error)
}

// LinkExtractor discovers same-site documentation paths referenced by a
// page. It operates on the raw markup, not the extracted content region,
// so that navigation links still count.
type LinkExtractor interface {
	// ExtractLinks scans every anchor in the markup and returns referenced
	// same-host paths: query strings stripped, fragment-only links dropped,
	// deduplicated in first-seen order.
	ExtractLinks(html string, pageURL string) ([]string, error)
}
