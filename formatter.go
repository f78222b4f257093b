package docpack

import (
	"fmt"
	"strings"
)

// FormatChunk formats a chunk for display or LLM context.
// The header uses the breadcrumb trail if available, falling back to the
// chunk heading, then the page title, then the path.
func FormatChunk(c *Chunk) string {
	header := strings.Join(c.ParentHeadings, " > ")
	if header == "" {
		header = c.Heading
	}
	if header == "" {
		header = c.Title
	}
	if header == "" {
		header = c.Path
	}

	var b strings.Builder
	b.WriteString("## Chunk: " + header + "\n")
	fmt.Fprintf(&b, "source: %s | section: %s | ~%d tokens | part %d of %d\n\n",
		c.URL, c.Section, c.TokenEstimate, c.ChunkIndex+1, c.TotalChunks)
	b.WriteString(c.Content)
	return b.String()
}
