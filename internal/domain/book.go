// Package domain contains the core business entities for the Shelfmark book catalog.
package domain

import "strings"

// Book represents a single catalog record.
type Book struct {
	Record
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre,omitempty"`
	CoverImageURL string `json:"coverImageUrl,omitempty"`
	Description   string `json:"description,omitempty"`
	PublishedYear *int   `json:"publishedYear,omitempty"`
	Pages         *int   `json:"pages,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
}

// BookInput carries candidate field values for creating a book.
// Field order matters: validation violations are reported in
// declaration order so error lists are deterministic.
type BookInput struct {
	Title         string `json:"title" validate:"required,max=200"`
	Author        string `json:"author" validate:"required,max=100"`
	Genre         string `json:"genre" validate:"omitempty,max=50"`
	CoverImageURL string `json:"coverImageUrl" validate:"omitempty,url"`
	Description   string `json:"description" validate:"omitempty,max=2000"`
	PublishedYear *int   `json:"publishedYear" validate:"omitempty,pubyear"`
	Pages         *int   `json:"pages" validate:"omitempty,min=1,max=10000"`
	ISBN          string `json:"isbn" validate:"omitempty,isbn_pattern"`
	Publisher     string `json:"publisher" validate:"omitempty,max=100"`
}

// Normalize trims surrounding whitespace from all text fields.
// Run before validation so "required" catches whitespace-only input.
func (in *BookInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
	in.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
	in.Description = strings.TrimSpace(in.Description)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Publisher = strings.TrimSpace(in.Publisher)
}

// ToBook builds a Book from normalized input. Identity and timestamps
// are left zero; the store assigns them at creation.
func (in *BookInput) ToBook() *Book {
	return &Book{
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		CoverImageURL: in.CoverImageURL,
		Description:   in.Description,
		PublishedYear: in.PublishedYear,
		Pages:         in.Pages,
		ISBN:          in.ISBN,
		Publisher:     in.Publisher,
	}
}

// BookPatch contains fields that can be updated on a book.
// Only non-nil fields are applied (partial update semantics).
// omitempty is intentionally not used here - we need to distinguish between
// "field not provided" (nil pointer) and "field set to empty" (pointer to "").
type BookPatch struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Genre         *string `json:"genre"`
	CoverImageURL *string `json:"coverImageUrl"`
	Description   *string `json:"description"`
	PublishedYear *int    `json:"publishedYear"`
	Pages         *int    `json:"pages"`
	ISBN          *string `json:"isbn"`
	Publisher     *string `json:"publisher"`
}

// Apply copies the provided fields onto the book.
func (p *BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.CoverImageURL != nil {
		b.CoverImageURL = *p.CoverImageURL
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.PublishedYear != nil {
		b.PublishedYear = p.PublishedYear
	}
	if p.Pages != nil {
		b.Pages = p.Pages
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Publisher != nil {
		b.Publisher = *p.Publisher
	}
}

// Input converts the book's current field values back into a BookInput
// so an updated record can be revalidated against the same rules as a
// freshly created one.
func (b *Book) Input() *BookInput {
	return &BookInput{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		CoverImageURL: b.CoverImageURL,
		Description:   b.Description,
		PublishedYear: b.PublishedYear,
		Pages:         b.Pages,
		ISBN:          b.ISBN,
		Publisher:     b.Publisher,
	}
}

// SetInput overwrites the book's field values from normalized input,
// leaving identity and timestamps untouched.
func (b *Book) SetInput(in *BookInput) {
	b.Title = in.Title
	b.Author = in.Author
	b.Genre = in.Genre
	b.CoverImageURL = in.CoverImageURL
	b.Description = in.Description
	b.PublishedYear = in.PublishedYear
	b.Pages = in.Pages
	b.ISBN = in.ISBN
	b.Publisher = in.Publisher
}

// NormalizeISBN reduces an ISBN to its bare digits (plus a trailing X
// check digit) so hyphenated, spaced, and compact spellings of the same
// number compare equal. The store keys its uniqueness index on this form.
func NormalizeISBN(isbn string) string {
	isbn = strings.TrimSpace(isbn)
	isbn = strings.TrimPrefix(isbn, "ISBN-13:")
	isbn = strings.TrimPrefix(isbn, "ISBN-10:")
	isbn = strings.TrimPrefix(isbn, "ISBN:")
	isbn = strings.TrimPrefix(isbn, "ISBN")
	var b strings.Builder
	for _, c := range isbn {
		switch {
		case c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == 'X' || c == 'x':
			b.WriteByte('X')
		}
	}
	return b.String()
}
