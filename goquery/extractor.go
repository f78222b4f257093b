// Package goquery implements HTML content and link extraction using CSS
// selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docpack/docpack"
)

// Compile-time interface verification.
var _ docpack.Extractor = (*Extractor)(nil)

// contentSelectors identify the main content region of a documentation
// page, tried in order. The list covers the semantic elements and the
// class conventions of the common documentation generators.
var contentSelectors = []string{
	"main",
	"article",
	"[role='main']",
	".markdown-body",
	".theme-doc-markdown",
	".md-content",
	".doc-content",
	".docs-content",
	"#content",
	".content",
}

// strippedSelectors are removed from the matched region before conversion.
// They hold navigation chrome, not page content.
var strippedSelectors = strings.Join([]string{
	"nav",
	"header",
	"footer",
	"aside",
	"script",
	"style",
	"noscript",
	".sidebar",
	".toc",
	".table-of-contents",
	".breadcrumbs",
	".edit-page",
	".pagination-nav",
}, ", ")

// Extractor extracts the main content of a documentation page by trying
// known content selectors in order.
type Extractor struct {
	// Fallback handles pages where no content selector matches. Nil falls
	// straight through to the whole document body.
	Fallback docpack.Extractor
}

// NewExtractor creates an Extractor with the given fallback.
func NewExtractor(fallback docpack.Extractor) *Extractor {
	return &Extractor{Fallback: fallback}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docpack.ExtractResult, error) {
	if rawHTML == "" {
		return nil, docpack.Errorf(docpack.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "failed to parse HTML: %v", err)
	}

	title := pageTitle(doc)
	description := pageDescription(doc)

	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		clone := sel.Clone()
		clone.Find(strippedSelectors).Remove()
		// An empty shell means the selector matched chrome, not content
		if strings.TrimSpace(clone.Text()) == "" {
			continue
		}
		contentHTML, err := goquery.OuterHtml(clone)
		if err != nil {
			continue
		}
		return &docpack.ExtractResult{
			Title:       title,
			Description: description,
			ContentHTML: contentHTML,
		}, nil
	}

	if e.Fallback != nil {
		result, err := e.Fallback.Extract(rawHTML)
		if err == nil && strings.TrimSpace(result.ContentHTML) != "" {
			if result.Title == "" {
				result.Title = title
			}
			if result.Description == "" {
				result.Description = description
			}
			return result, nil
		}
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil, docpack.Errorf(docpack.EINTERNAL, "no content found")
	}
	clone := body.Clone()
	clone.Find(strippedSelectors).Remove()
	contentHTML, err := goquery.OuterHtml(clone)
	if err != nil {
		return nil, docpack.Errorf(docpack.EINTERNAL, "failed to render content: %v", err)
	}
	return &docpack.ExtractResult{
		Title:       title,
		Description: description,
		ContentHTML: contentHTML,
	}, nil
}

// pageTitle prefers the first h1 over the document title, which usually
// carries site-name suffixes.
func pageTitle(doc *goquery.Document) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func pageDescription(doc *goquery.Document) string {
	if desc, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
		if desc = strings.TrimSpace(desc); desc != "" {
			return desc
		}
	}
	if desc, ok := doc.Find("meta[property='og:description']").First().Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}
