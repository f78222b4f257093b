package readability

import (
	"strings"

	"github.com/docpack/docpack"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docpack.Extractor at compile time.
var _ docpack.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docpack.ExtractResult, error) {
	if rawHTML == "" {
		return nil, docpack.Errorf(docpack.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &docpack.ExtractResult{
		Title:       article.Title,
		Description: article.Excerpt,
		ContentHTML: article.Content,
	}, nil
}
