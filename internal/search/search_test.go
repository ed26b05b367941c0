package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewIndex(Options{
		DataPath: t.TempDir(),
		Logger:   slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func intPtr(v int) *int { return &v }

func sampleBook(id, title, author, genre string, year int) *domain.Book {
	b := &domain.Book{
		Title:       title,
		Author:      author,
		Genre:       genre,
		Description: "A well-regarded book.",
	}
	b.ID = id
	if year > 0 {
		b.PublishedYear = intPtr(year)
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	return b
}

func seedIndex(t *testing.T, idx *Index) {
	t.Helper()

	books := []*domain.Book{
		sampleBook("book-000000000000000000001", "The Great Gatsby", "F. Scott Fitzgerald", "Classic", 1925),
		sampleBook("book-000000000000000000002", "Dune", "Frank Herbert", "Science Fiction", 1965),
		sampleBook("book-000000000000000000003", "Neuromancer", "William Gibson", "Science Fiction", 1984),
		sampleBook("book-000000000000000000004", "Pride and Prejudice", "Jane Austen", "Classic", 1813),
	}
	require.NoError(t, idx.IndexBooks(context.Background(), books))
}

func TestIndexAndSearch(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)

	params := DefaultParams()
	params.Query = "gatsby"
	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "The Great Gatsby", result.Hits[0].Title)
	assert.Equal(t, "F. Scott Fitzgerald", result.Hits[0].Author)
}

func TestSearch_AuthorMatch(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams()
	params.Query = "herbert"
	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "Dune", result.Hits[0].Title)
}

func TestSearch_FuzzyTypo(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams()
	params.Query = "gatsbi"
	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits, "one-character typo should still match")
	assert.Equal(t, "The Great Gatsby", result.Hits[0].Title)
}

func TestSearch_GenreFilter(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams()
	params.Genre = "science fiction"
	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), result.Total)
	for _, hit := range result.Hits {
		assert.Equal(t, "Science Fiction", hit.Genre)
	}
}

func TestSearch_YearRange(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams()
	params.MinYear = 1900
	params.MaxYear = 1970
	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), result.Total)
	for _, hit := range result.Hits {
		assert.GreaterOrEqual(t, hit.PublishedYear, 1900)
		assert.LessOrEqual(t, hit.PublishedYear, 1970)
	}
}

func TestSearch_GenreFacets(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams()
	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, facet := range result.Genres {
		counts[facet.Value] = facet.Count
	}
	assert.Equal(t, 2, counts["classic"])
	assert.Equal(t, 2, counts["science"]+counts["science fiction"])
}

func TestSearch_SortByTitle(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams()
	params.SortBy = "title"
	params.SortOrder = "asc"
	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, result.Hits, 4)
	assert.Equal(t, "Dune", result.Hits[0].Title)
}

func TestDeleteBook(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	require.NoError(t, idx.DeleteBook(context.Background(), "book-000000000000000000002"))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	params := DefaultParams()
	params.Query = "dune"
	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestRebuild_DropsAllDocuments(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	require.Equal(t, uint64(4), count)

	require.NoError(t, idx.Rebuild())

	count, err = idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	// The fresh index accepts writes and serves queries.
	book := sampleBook("book-000000000000000000005", "Fahrenheit 451", "Ray Bradbury", "Science Fiction", 1953)
	require.NoError(t, idx.IndexBook(context.Background(), book))

	params := DefaultParams()
	params.Query = "fahrenheit"
	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Fahrenheit 451", result.Hits[0].Title)
}

func TestNewIndex_ReopensExisting(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.DiscardHandler)

	idx, err := NewIndex(Options{DataPath: dir, Logger: log})
	require.NoError(t, err)
	require.NoError(t, idx.IndexBook(context.Background(),
		sampleBook("book-000000000000000000009", "Dune", "Frank Herbert", "Science Fiction", 1965)))
	require.NoError(t, idx.Close())

	reopened, err := NewIndex(Options{DataPath: dir, Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}
