// Package chunk splits crawled pages into bounded-size, heading-aware
// retrieval units.
//
// Chunking runs in three phases: split page markdown at heading lines,
// merge undersized sections into their predecessors, then re-split
// oversized sections at paragraph boundaries. Each phase preserves
// content: joining its output with the separators it split on reproduces
// its input.
package chunk

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/docpack/docpack"
)

// Default size bounds, in estimated tokens.
const (
	DefaultMinTokens = 100
	DefaultMaxTokens = 1000
)

// Options control chunk size bounds.
type Options struct {
	// MinTokens is the threshold below which a section merges into its
	// predecessor. Defaults to DefaultMinTokens.
	MinTokens int

	// MaxTokens is the size no produced section may exceed, except for a
	// single paragraph that is itself larger. Defaults to DefaultMaxTokens.
	MaxTokens int
}

func (o Options) withDefaults() Options {
	if o.MinTokens <= 0 {
		o.MinTokens = DefaultMinTokens
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

// Section is a contiguous slice of page markdown introduced by one heading.
// Level 0 marks preamble content before the first heading.
type Section struct {
	Heading string
	Level   int
	Content string
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Split segments markdown at heading lines. Heading markers inside fenced
// code blocks do not split. Content before the first heading becomes a
// level-0 section with an empty heading; a preamble that is pure
// whitespace attaches to the first heading's section instead. Heading
// lines stay part of their section's content, so joining all section
// contents with newlines reproduces the input.
func Split(content string) []Section {
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	var sections []Section
	var cur []string
	heading := ""
	level := 0
	inFence := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		body := strings.Join(cur, "\n")
		cur = nil
		if heading == "" && level == 0 && strings.TrimSpace(body) == "" {
			// a page of pure whitespace has no sections
			return
		}
		sections = append(sections, Section{Heading: heading, Level: level, Content: body})
	}

	for _, line := range lines {
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				if heading != "" || level != 0 || !allBlank(cur) {
					flush()
				}
				heading = strings.TrimSpace(m[2])
				level = len(m[1])
				cur = append(cur, line)
				continue
			}
		}
		if isFence(line) {
			inFence = !inFence
		}
		cur = append(cur, line)
	}
	flush()

	return sections
}

// isFence reports whether a line opens or closes a fenced code block.
func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "```")
}

func allBlank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}

// MergeSmall folds sections estimating below min into their immediate
// predecessor, keeping the predecessor's heading, provided the combined
// content estimates within max. The first section has no predecessor and
// always stands alone.
func MergeSmall(sections []Section, min, max int) []Section {
	var out []Section
	for _, s := range sections {
		if len(out) > 0 && docpack.EstimateTokens(s.Content) < min {
			prev := &out[len(out)-1]
			merged := prev.Content + "\n" + s.Content
			if docpack.EstimateTokens(merged) <= max {
				prev.Content = merged
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// SplitLarge re-splits any section estimating above max at blank-line
// paragraph boundaries, packing consecutive paragraphs greedily. A single
// paragraph larger than max is kept intact rather than split mid-sentence.
// Every piece inherits the original section's heading and level.
func SplitLarge(sections []Section, max int) []Section {
	var out []Section
	for _, s := range sections {
		if docpack.EstimateTokens(s.Content) <= max {
			out = append(out, s)
			continue
		}
		out = append(out, splitSection(s, max)...)
	}
	return out
}

func splitSection(s Section, max int) []Section {
	paras := strings.Split(s.Content, "\n\n")
	var pieces []Section
	cur := paras[0]
	for _, p := range paras[1:] {
		joined := cur + "\n\n" + p
		if docpack.EstimateTokens(joined) <= max {
			cur = joined
			continue
		}
		pieces = append(pieces, Section{Heading: s.Heading, Level: s.Level, Content: cur})
		cur = p
	}
	pieces = append(pieces, Section{Heading: s.Heading, Level: s.Level, Content: cur})
	return pieces
}

// Build turns one crawled page into its ordered chunk list. pageSlug
// prefixes chunk IDs; callers pass a run-unique slug, typically from a
// SlugTracker.
func Build(page *docpack.CrawlResult, pageSlug string, opts Options) []docpack.Chunk {
	opts = opts.withDefaults()

	sections := Split(page.Content)
	sections = MergeSmall(sections, opts.MinTokens, opts.MaxTokens)
	sections = SplitLarge(sections, opts.MaxTokens)
	if len(sections) == 0 {
		return nil
	}

	chunks := make([]docpack.Chunk, 0, len(sections))
	var stack []stackEntry
	for _, s := range sections {
		var trail []string
		stack, trail = advance(stack, s, page.Title)
		chunks = append(chunks, docpack.Chunk{
			URL:            page.URL,
			Path:           page.Path,
			Section:        page.Section,
			Title:          page.Title,
			Heading:        s.Heading,
			HeadingLevel:   s.Level,
			ParentHeadings: trail,
			Content:        s.Content,
			TokenEstimate:  docpack.EstimateTokens(s.Content),
			CrawledAt:      page.CrawledAt,
		})
	}
	return Reindex(pageSlug, chunks)
}

// Reindex assigns IDs and positions to a page's chunks. It runs after any
// filtering so that chunkIndex stays gapless and IDs track the final
// ordinals.
func Reindex(pageSlug string, chunks []docpack.Chunk) []docpack.Chunk {
	if pageSlug == "" {
		pageSlug = "page"
	}
	for i := range chunks {
		chunks[i].ID = fmt.Sprintf("%s-%03d", pageSlug, i)
		chunks[i].ChunkIndex = i
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}

// stackEntry is one open heading on the hierarchy stack.
type stackEntry struct {
	heading string
	level   int
}

// advance moves the heading stack across one section and returns the new
// stack plus the section's breadcrumb: the page title first, then every
// open heading from outermost down to the section's own.
func advance(stack []stackEntry, s Section, pageTitle string) ([]stackEntry, []string) {
	next := make([]stackEntry, 0, len(stack)+1)
	for _, e := range stack {
		if s.Level > 0 && e.level < s.Level {
			next = append(next, e)
		}
	}
	if s.Heading != "" {
		next = append(next, stackEntry{heading: s.Heading, level: s.Level})
	}

	trail := make([]string, 0, len(next)+1)
	trail = append(trail, pageTitle)
	for _, e := range next {
		trail = append(trail, e.heading)
	}
	return next, trail
}

// SlugTracker disambiguates page slugs within one run. Duplicate titles
// get numeric suffixes: the second "intro" page becomes "intro-1".
type SlugTracker struct {
	counts map[string]int
}

// NewSlugTracker returns an empty tracker.
func NewSlugTracker() *SlugTracker {
	return &SlugTracker{counts: make(map[string]int)}
}

// Slug returns a run-unique ID prefix for a page title.
func (t *SlugTracker) Slug(title string) string {
	base := docpack.Slug(title)
	if base == "" {
		base = "page"
	}
	count, exists := t.counts[base]
	if exists {
		t.counts[base]++
		return base + "-" + strconv.Itoa(count)
	}
	t.counts[base] = 1
	return base
}
