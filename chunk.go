package docpack

import (
	"context"
	"fmt"
	"time"
)

// Chunk is a bounded-size, heading-addressable unit of page content
// prepared for retrieval. Chunks are created once by the chunker and never
// mutated afterwards.
type Chunk struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Path         string `json:"path"`
	Section      string `json:"section"`
	Title        string `json:"title"`
	Heading      string `json:"heading"`
	HeadingLevel int    `json:"headingLevel"`

	// ParentHeadings is the breadcrumb from the page title down to this
	// chunk's own heading, outermost first.
	ParentHeadings []string `json:"parentHeadings"`

	Content       string    `json:"content"` // Markdown
	TokenEstimate int       `json:"tokenEstimate"`
	CrawledAt     time.Time `json:"crawledAt"`

	// ChunkIndex is the chunk's 0-based position within its page;
	// TotalChunks is the page's final chunk count.
	ChunkIndex  int `json:"chunkIndex"`
	TotalChunks int `json:"totalChunks"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return Errorf(EINVALID, "chunk ID required")
	}
	if c.Path == "" {
		return Errorf(EINVALID, "chunk path required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	if c.ChunkIndex < 0 || c.ChunkIndex >= c.TotalChunks {
		return Errorf(EINVALID, "chunk index %d out of range for %d chunks", c.ChunkIndex, c.TotalChunks)
	}
	return nil
}

// Ref returns the chunk's manifest entry: its metadata with content
// replaced by an artifact file reference.
func (c *Chunk) Ref() ChunkRef {
	return ChunkRef{
		ID:             c.ID,
		File:           ChunkFile(c.ID),
		URL:            c.URL,
		Path:           c.Path,
		Section:        c.Section,
		Title:          c.Title,
		Heading:        c.Heading,
		ParentHeadings: c.ParentHeadings,
		TokenEstimate:  c.TokenEstimate,
		ChunkIndex:     c.ChunkIndex,
		TotalChunks:    c.TotalChunks,
	}
}

// ChunkFile returns the artifact path for a chunk ID, relative to the
// output directory root. The layout is part of the output contract:
// consumers resolve manifest entries against it.
func ChunkFile(id string) string {
	return fmt.Sprintf("chunks/%s.json", id)
}

// ChunkRef is a manifest entry pointing at one chunk artifact.
type ChunkRef struct {
	ID             string   `json:"id"`
	File           string   `json:"file"`
	URL            string   `json:"url"`
	Path           string   `json:"path"`
	Section        string   `json:"section"`
	Title          string   `json:"title"`
	Heading        string   `json:"heading"`
	ParentHeadings []string `json:"parentHeadings"`
	TokenEstimate  int      `json:"tokenEstimate"`
	ChunkIndex     int      `json:"chunkIndex"`
	TotalChunks    int      `json:"totalChunks"`
}

// Manifest indexes every chunk produced by an ingestion run. It carries
// metadata only; chunk content lives in the per-chunk artifacts.
type Manifest struct {
	GeneratedAt time.Time  `json:"generatedAt"`
	PageCount   int        `json:"pageCount"`
	ChunkCount  int        `json:"chunkCount"`
	TotalTokens int        `json:"totalTokens"`
	Sections    []string   `json:"sections"`
	Chunks      []ChunkRef `json:"chunks"`
}

// ChunkStore persists chunk artifacts and the manifest with atomic
// semantics. Writes land in a staging area; Commit atomically replaces the
// previous output; Abort discards staged writes.
type ChunkStore interface {
	SaveChunk(ctx context.Context, chunk *Chunk) error
	SaveManifest(ctx context.Context, m *Manifest) error
	Commit() error
	Abort() error
}
