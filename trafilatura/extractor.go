package trafilatura

import (
	"bytes"
	"errors"
	"strings"

	"github.com/docpack/docpack"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docpack.Extractor at compile time.
var _ docpack.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	// Fallback handles pages where trafilatura errors out or finds no
	// content node. Nil surfaces the error or empty result as-is.
	Fallback docpack.Extractor
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docpack.ExtractResult, error) {
	if rawHTML == "" {
		return nil, errors.New("empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		if e.Fallback != nil {
			return e.Fallback.Extract(rawHTML)
		}
		return nil, err
	}

	if result.ContentNode == nil {
		if e.Fallback != nil {
			return e.Fallback.Extract(rawHTML)
		}
		return &docpack.ExtractResult{
			Title:       result.Metadata.Title,
			Description: result.Metadata.Description,
		}, nil
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	return &docpack.ExtractResult{
		Title:       result.Metadata.Title,
		Description: result.Metadata.Description,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
