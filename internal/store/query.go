package store

import (
	"sort"
	"strings"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"golang.org/x/text/cases"
)

// List query defaults. Unknown sort fields fall back to creation time,
// newest first.
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

// ListQuery describes a catalog listing: optional text search and genre
// filter, sort field and direction, and page-based pagination.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	Genre     string
	SortBy    string
	SortOrder string
}

// DefaultListQuery returns a query for the first page with default sorting.
func DefaultListQuery() ListQuery {
	return ListQuery{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    DefaultSortBy,
		SortOrder: DefaultSortOrder,
	}
}

// Normalize clamps pagination values and fills in defaults so a zero-value
// query behaves like DefaultListQuery.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if !isSortField(q.SortBy) {
		q.SortBy = DefaultSortBy
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		q.SortOrder = DefaultSortOrder
	}
}

// Matches reports whether a book satisfies the query's filters. The search
// term matches as a case-folded substring of title, author, or description;
// the genre filter matches the genre field the same way. Both must hold.
func (q ListQuery) Matches(book *domain.Book) bool {
	if q.Search != "" {
		needle := fold(q.Search)
		if !strings.Contains(fold(book.Title), needle) &&
			!strings.Contains(fold(book.Author), needle) &&
			!strings.Contains(fold(book.Description), needle) {
			return false
		}
	}
	if q.Genre != "" {
		if !strings.Contains(fold(book.Genre), fold(q.Genre)) {
			return false
		}
	}
	return true
}

// ListResult is a page of books plus the pagination metadata clients need
// to render page controls.
type ListResult struct {
	Books       []*domain.Book `json:"books"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	Total       int            `json:"total"`
}

// Run evaluates the query against a catalog snapshot: filter, sort, slice.
// Total and TotalPages count the filtered set, not the whole catalog. Pages
// past the end yield an empty Books slice with the metadata intact.
func (q ListQuery) Run(books []*domain.Book) *ListResult {
	q.Normalize()

	matched := make([]*domain.Book, 0, len(books))
	for _, book := range books {
		if q.Matches(book) {
			matched = append(matched, book)
		}
	}

	sortBooks(matched, q.SortBy, q.SortOrder)

	total := len(matched)
	totalPages := (total + q.Limit - 1) / q.Limit

	skip := (q.Page - 1) * q.Limit
	if skip > total {
		skip = total
	}
	end := skip + q.Limit
	if end > total {
		end = total
	}

	return &ListResult{
		Books:       matched[skip:end],
		TotalPages:  totalPages,
		CurrentPage: q.Page,
		Total:       total,
	}
}

func isSortField(field string) bool {
	switch field {
	case "title", "author", "genre", "publisher", "isbn", "publishedYear", "pages", "createdAt", "updatedAt":
		return true
	}
	return false
}

// sortBooks orders books in place. String fields compare case-folded;
// optional numeric fields sort missing values last regardless of direction.
// The sort is stable so equal keys keep their store order.
func sortBooks(books []*domain.Book, sortBy, sortOrder string) {
	desc := sortOrder == "desc"

	less := func(a, b *domain.Book) bool {
		switch sortBy {
		case "title":
			return compareFolded(a.Title, b.Title, desc)
		case "author":
			return compareFolded(a.Author, b.Author, desc)
		case "genre":
			return compareFolded(a.Genre, b.Genre, desc)
		case "publisher":
			return compareFolded(a.Publisher, b.Publisher, desc)
		case "isbn":
			return compareFolded(a.ISBN, b.ISBN, desc)
		case "publishedYear":
			return compareOptionalInt(a.PublishedYear, b.PublishedYear, desc)
		case "pages":
			return compareOptionalInt(a.Pages, b.Pages, desc)
		case "updatedAt":
			if desc {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
			return a.UpdatedAt.Before(b.UpdatedAt)
		default: // createdAt
			if desc {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(books, func(i, j int) bool {
		return less(books[i], books[j])
	})
}

func compareFolded(a, b string, desc bool) bool {
	fa, fb := fold(a), fold(b)
	if desc {
		return fa > fb
	}
	return fa < fb
}

func compareOptionalInt(a, b *int, desc bool) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	if desc {
		return *a > *b
	}
	return *a < *b
}

// fold lowercases for caseless comparison, handling characters like ß that
// a plain ToLower would miss.
func fold(s string) string {
	return cases.Fold().String(s)
}
