package docpack_test

import (
	"testing"

	"github.com/docpack/docpack"
	"github.com/stretchr/testify/assert"
)

func TestFormatChunk(t *testing.T) {
	t.Parallel()

	t.Run("uses the breadcrumb trail as the header", func(t *testing.T) {
		t.Parallel()

		chunk := &docpack.Chunk{
			ID:             "install-2",
			URL:            "https://example.com/docs/install",
			Section:        "Guides",
			Title:          "Installation",
			Heading:        "From source",
			ParentHeadings: []string{"Installation", "From source"},
			Content:        "Clone the repository and run make.",
			TokenEstimate:  8,
			ChunkIndex:     1,
			TotalChunks:    3,
		}

		result := docpack.FormatChunk(chunk)

		assert.Contains(t, result, "## Chunk: Installation > From source\n")
		assert.Contains(t, result, "source: https://example.com/docs/install")
		assert.Contains(t, result, "section: Guides")
		assert.Contains(t, result, "~8 tokens")
		assert.Contains(t, result, "part 2 of 3")
	})

	t.Run("falls back to the heading without a breadcrumb", func(t *testing.T) {
		t.Parallel()

		chunk := &docpack.Chunk{
			Heading: "Quick start",
			Content: "Run the binary.",
		}

		result := docpack.FormatChunk(chunk)

		assert.Contains(t, result, "## Chunk: Quick start\n")
	})

	t.Run("falls back to the title then the path", func(t *testing.T) {
		t.Parallel()

		byTitle := docpack.FormatChunk(&docpack.Chunk{
			Title:   "Getting Started",
			Content: "Welcome.",
		})
		assert.Contains(t, byTitle, "## Chunk: Getting Started\n")

		byPath := docpack.FormatChunk(&docpack.Chunk{
			Path:    "/docs/intro",
			Content: "Welcome.",
		})
		assert.Contains(t, byPath, "## Chunk: /docs/intro\n")
	})

	t.Run("content follows the metadata after a blank line", func(t *testing.T) {
		t.Parallel()

		chunk := &docpack.Chunk{
			Heading: "Usage",
			Content: "# Usage\n\nCall the API.",
		}

		result := docpack.FormatChunk(chunk)

		assert.Contains(t, result, "\n\n# Usage\n\nCall the API.")
	})
}
