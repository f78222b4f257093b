package mock

import "github.com/docpack/docpack"

var _ docpack.Converter = (*Converter)(nil)

// Converter is a mock implementation of docpack.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
