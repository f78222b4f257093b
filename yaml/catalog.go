// Package yaml loads and renders seed catalogs in YAML form.
package yaml

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/docpack/docpack"
)

// catalogFile mirrors the on-disk catalog layout.
type catalogFile struct {
	BaseURL  string        `yaml:"base_url"`
	Sections []sectionFile `yaml:"sections"`
}

type sectionFile struct {
	Name  string   `yaml:"name"`
	Paths []string `yaml:"paths"`
}

// ParseCatalog decodes catalog YAML and validates the result. Section and
// path order follow document order.
func ParseCatalog(data []byte) (*docpack.Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, docpack.Errorf(docpack.EINVALID, "parsing catalog: %v", err)
	}

	cat := &docpack.Catalog{BaseURL: file.BaseURL}
	for _, s := range file.Sections {
		cat.Sections = append(cat.Sections, docpack.CatalogSection{
			Name:  s.Name,
			Paths: s.Paths,
		})
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string) (*docpack.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docpack.Errorf(docpack.ENOTFOUND, "catalog file %q not found", path)
		}
		return nil, err
	}
	return ParseCatalog(data)
}

// FormatCatalog renders a catalog as YAML. The output parses back with
// ParseCatalog and is meant as a starting point for hand editing.
func FormatCatalog(cat *docpack.Catalog) ([]byte, error) {
	file := catalogFile{BaseURL: cat.BaseURL}
	for _, s := range cat.Sections {
		file.Sections = append(file.Sections, sectionFile{
			Name:  s.Name,
			Paths: s.Paths,
		})
	}
	return yaml.Marshal(&file)
}
