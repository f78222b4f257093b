package docpack_test

import (
	"testing"

	"github.com/docpack/docpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid catalog passes", func(t *testing.T) {
		t.Parallel()

		cat := &docpack.Catalog{
			BaseURL: "https://example.com",
			Sections: []docpack.CatalogSection{
				{Name: "Guides", Paths: []string{"/docs/intro"}},
			},
		}

		require.NoError(t, cat.Validate())
	})

	t.Run("missing base URL fails", func(t *testing.T) {
		t.Parallel()

		cat := &docpack.Catalog{
			Sections: []docpack.CatalogSection{
				{Name: "Guides", Paths: []string{"/docs/intro"}},
			},
		}

		err := cat.Validate()
		require.Error(t, err)
		assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
	})

	t.Run("no sections fails", func(t *testing.T) {
		t.Parallel()

		cat := &docpack.Catalog{BaseURL: "https://example.com"}

		err := cat.Validate()
		require.Error(t, err)
		assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
	})

	t.Run("sections without any paths fail", func(t *testing.T) {
		t.Parallel()

		cat := &docpack.Catalog{
			BaseURL: "https://example.com",
			Sections: []docpack.CatalogSection{
				{Name: "Guides"},
				{Name: "Reference"},
			},
		}

		err := cat.Validate()
		require.Error(t, err)
		assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
	})

	t.Run("unnamed section fails", func(t *testing.T) {
		t.Parallel()

		cat := &docpack.Catalog{
			BaseURL: "https://example.com",
			Sections: []docpack.CatalogSection{
				{Paths: []string{"/docs/intro"}},
			},
		}

		err := cat.Validate()
		require.Error(t, err)
		assert.Equal(t, docpack.EINVALID, docpack.ErrorCode(err))
	})
}

func TestCatalog_Seeds_PreservesOrder(t *testing.T) {
	t.Parallel()

	cat := &docpack.Catalog{
		BaseURL: "https://example.com",
		Sections: []docpack.CatalogSection{
			{Name: "Guides", Paths: []string{"/docs/intro", "/docs/install"}},
			{Name: "Reference", Paths: []string{"/docs/api"}},
		},
	}

	seeds := cat.Seeds()

	require.Len(t, seeds, 3)
	assert.Equal(t, docpack.PageTask{Path: "/docs/intro", Section: "Guides"}, seeds[0])
	assert.Equal(t, docpack.PageTask{Path: "/docs/install", Section: "Guides"}, seeds[1])
	assert.Equal(t, docpack.PageTask{Path: "/docs/api", Section: "Reference"}, seeds[2])
}
