package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestBookInput_Normalize(t *testing.T) {
	in := &BookInput{
		Title:     "  Dune  ",
		Author:    " Frank Herbert ",
		Genre:     " Science Fiction ",
		ISBN:      " 978-0-441-17271-9 ",
		Publisher: "  Ace  ",
	}
	in.Normalize()

	assert.Equal(t, "Dune", in.Title)
	assert.Equal(t, "Frank Herbert", in.Author)
	assert.Equal(t, "Science Fiction", in.Genre)
	assert.Equal(t, "978-0-441-17271-9", in.ISBN)
	assert.Equal(t, "Ace", in.Publisher)
}

func TestBookInput_ToBookRoundTrip(t *testing.T) {
	in := &BookInput{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         "Science Fiction",
		Description:   "Desert planet",
		PublishedYear: intPtr(1965),
		Pages:         intPtr(412),
		ISBN:          "978-0-441-17271-9",
		Publisher:     "Chilton Books",
	}

	book := in.ToBook()
	assert.Equal(t, "Dune", book.Title)
	require.NotNil(t, book.PublishedYear)
	assert.Equal(t, 1965, *book.PublishedYear)

	back := book.Input()
	assert.Equal(t, in, back)
}

func TestBookPatch_Apply(t *testing.T) {
	book := &Book{
		Title:       "Original Title",
		Author:      "Original Author",
		Genre:       "Fiction",
		Description: "Original description",
		Pages:       intPtr(100),
	}

	// Nil fields leave stored values alone; set fields replace them,
	// including explicit empties.
	patch := &BookPatch{
		Title: strPtr("New Title"),
		Genre: strPtr(""),
		Pages: intPtr(250),
	}
	patch.Apply(book)

	assert.Equal(t, "New Title", book.Title)
	assert.Equal(t, "Original Author", book.Author)
	assert.Equal(t, "", book.Genre)
	assert.Equal(t, "Original description", book.Description)
	require.NotNil(t, book.Pages)
	assert.Equal(t, 250, *book.Pages)
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"978-0-7432-7356-5", "9780743273565"},
		{"978 0 7432 7356 5", "9780743273565"},
		{"9780743273565", "9780743273565"},
		{"074327356x", "074327356X"},
		{"ISBN 978-0-7432-7356-5", "9780743273565"},
		{"ISBN-10: 074327356X", "074327356X"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeISBN(tt.in), "input %q", tt.in)
	}
}
