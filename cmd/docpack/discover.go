package main

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/docpack/docpack"
	"github.com/docpack/docpack/yaml"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	// Compile filters early so a bad pattern fails before any network call.
	var filter *docpack.PathFilter
	if len(c.Filter) > 0 {
		filter = &docpack.PathFilter{}
		for _, pattern := range c.Filter {
			re, err := regexp.Compile(pattern)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: invalid filter pattern %q: %v\n", pattern, err)
				return err
			}
			filter.Include = append(filter.Include, re)
		}
	}

	paths, err := deps.Sitemaps.DiscoverPaths(deps.Ctx, c.URL, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(deps.Stderr, "Hint: The site may not publish a sitemap. Write a catalog by hand.")
		return docpack.Errorf(docpack.ENOTFOUND, "no paths found for %s", c.URL)
	}

	out, err := yaml.FormatCatalog(starterCatalog(c.URL, paths))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}
	_, err = deps.Stdout.Write(out)
	return err
}

// starterCatalog groups discovered paths into sections by their first path
// segment below the base URL, preserving discovery order.
func starterCatalog(baseURL string, paths []string) *docpack.Catalog {
	basePath := ""
	if u, err := url.Parse(baseURL); err == nil {
		basePath = strings.TrimSuffix(u.Path, "/")
	}

	cat := &docpack.Catalog{BaseURL: baseURL}
	index := make(map[string]int)
	for _, p := range paths {
		name := sectionName(p, basePath)
		i, ok := index[name]
		if !ok {
			i = len(cat.Sections)
			cat.Sections = append(cat.Sections, docpack.CatalogSection{Name: name})
			index[name] = i
		}
		cat.Sections[i].Paths = append(cat.Sections[i].Paths, p)
	}
	return cat
}

// sectionName names the section for a path. Pages directly below the base
// path group under Overview; deeper pages group by their first segment.
func sectionName(path, basePath string) string {
	rel := strings.Trim(strings.TrimPrefix(path, basePath), "/")
	seg, _, found := strings.Cut(rel, "/")
	if !found || seg == "" {
		return "Overview"
	}
	return titleCase(seg)
}

// titleCase turns a segment like "api-reference" into "Api Reference".
func titleCase(seg string) string {
	words := strings.FieldsFunc(seg, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
