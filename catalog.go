package docpack

// CatalogSection is one named group of seed paths.
type CatalogSection struct {
	Name  string
	Paths []string
}

// Catalog is the seed configuration for a crawl: an ordered list of
// sections, each carrying an ordered list of site-relative page paths.
// Section order and path order determine the initial frontier order.
type Catalog struct {
	BaseURL  string
	Sections []CatalogSection
}

// Validate returns an error when the catalog cannot seed a crawl.
func (c *Catalog) Validate() error {
	if c.BaseURL == "" {
		return Errorf(EINVALID, "catalog base URL required")
	}
	if len(c.Sections) == 0 {
		return Errorf(EINVALID, "catalog has no sections")
	}
	total := 0
	for _, s := range c.Sections {
		if s.Name == "" {
			return Errorf(EINVALID, "catalog section name required")
		}
		total += len(s.Paths)
	}
	if total == 0 {
		return Errorf(EINVALID, "catalog has no seed paths")
	}
	return nil
}

// Seeds flattens the catalog into crawl tasks, preserving section order and
// path order within each section.
func (c *Catalog) Seeds() []PageTask {
	var tasks []PageTask
	for _, s := range c.Sections {
		for _, p := range s.Paths {
			tasks = append(tasks, PageTask{Path: p, Section: s.Name})
		}
	}
	return tasks
}
