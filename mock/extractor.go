package mock

import "github.com/docpack/docpack"

// Compile-time interface verification.
var (
	_ docpack.Extractor     = (*Extractor)(nil)
	_ docpack.LinkExtractor = (*LinkExtractor)(nil)
)

// Extractor is a mock implementation of docpack.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docpack.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docpack.ExtractResult, error) {
	return e.ExtractFn(html)
}

// LinkExtractor is a mock implementation of docpack.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, pageURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, pageURL string) ([]string, error) {
	return e.ExtractLinksFn(html, pageURL)
}
