package client

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Form field names, matching the API's JSON field names.
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldGenre         = "genre"
	FieldCoverImageURL = "coverImageUrl"
	FieldDescription   = "description"
	FieldPublishedYear = "publishedYear"
	FieldPages         = "pages"
	FieldISBN          = "isbn"
	FieldPublisher     = "publisher"
)

// BookForm accumulates book fields and submits them as a create or update.
// Validation failures land on the offending field: the server's structured
// details are used when present, with keyword matching over the message
// text as a fallback for older servers. Errors that match no field go into
// the general bucket. Editing a field clears its error.
type BookForm struct {
	client *Client
	bookID string // empty means create mode

	mu      sync.Mutex
	input   BookInput
	errors  map[string]string
	general string
}

// NewBookForm creates an empty form in create mode.
func NewBookForm(c *Client) *BookForm {
	return &BookForm{
		client: c,
		errors: make(map[string]string),
	}
}

// NewEditForm creates a form in edit mode, prefilled from an existing book.
func NewEditForm(c *Client, book *Book) *BookForm {
	return &BookForm{
		client: c,
		bookID: book.ID,
		input: BookInput{
			Title:         book.Title,
			Author:        book.Author,
			Genre:         book.Genre,
			CoverImageURL: book.CoverImageURL,
			Description:   book.Description,
			PublishedYear: book.PublishedYear,
			Pages:         book.Pages,
			ISBN:          book.ISBN,
			Publisher:     book.Publisher,
		},
		errors: make(map[string]string),
	}
}

// Input returns a copy of the current field values.
func (f *BookForm) Input() BookInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// FieldError returns the error message for a field, or "" if none.
func (f *BookForm) FieldError(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

// GeneralError returns the error that matched no field, or "".
func (f *BookForm) GeneralError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.general
}

// Typed setters. Each clears the field's error, so stale messages disappear
// as soon as the user edits the field.

func (f *BookForm) SetTitle(v string)  { f.set(FieldTitle, func(in *BookInput) { in.Title = v }) }
func (f *BookForm) SetAuthor(v string) { f.set(FieldAuthor, func(in *BookInput) { in.Author = v }) }
func (f *BookForm) SetGenre(v string)  { f.set(FieldGenre, func(in *BookInput) { in.Genre = v }) }
func (f *BookForm) SetCoverImageURL(v string) {
	f.set(FieldCoverImageURL, func(in *BookInput) { in.CoverImageURL = v })
}
func (f *BookForm) SetDescription(v string) {
	f.set(FieldDescription, func(in *BookInput) { in.Description = v })
}
func (f *BookForm) SetPublishedYear(v *int) {
	f.set(FieldPublishedYear, func(in *BookInput) { in.PublishedYear = v })
}
func (f *BookForm) SetPages(v *int) { f.set(FieldPages, func(in *BookInput) { in.Pages = v }) }
func (f *BookForm) SetISBN(v string) {
	f.set(FieldISBN, func(in *BookInput) { in.ISBN = v })
}
func (f *BookForm) SetPublisher(v string) {
	f.set(FieldPublisher, func(in *BookInput) { in.Publisher = v })
}

func (f *BookForm) set(field string, apply func(*BookInput)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	apply(&f.input)
	delete(f.errors, field)
}

// Submit sends the form. In create mode it POSTs a new book; in edit mode
// it PUTs the full field set. On failure the returned error is also mapped
// onto the form's field and general errors for rendering.
func (f *BookForm) Submit(ctx context.Context) (*Book, error) {
	f.mu.Lock()
	f.errors = make(map[string]string)
	f.general = ""
	input := f.input
	bookID := f.bookID
	f.mu.Unlock()

	var (
		book *Book
		err  error
	)
	if bookID == "" {
		book, err = f.client.CreateBook(ctx, input)
	} else {
		book, err = f.client.UpdateBook(ctx, bookID, patchFromInput(input))
	}

	if err != nil {
		f.applyError(err)
		return nil, err
	}
	return book, nil
}

// patchFromInput converts the form's complete state into a patch. Every
// field is sent, so cleared fields are cleared server-side too.
func patchFromInput(in BookInput) BookPatch {
	return BookPatch{
		Title:         &in.Title,
		Author:        &in.Author,
		Genre:         &in.Genre,
		CoverImageURL: &in.CoverImageURL,
		Description:   &in.Description,
		PublishedYear: in.PublishedYear,
		Pages:         in.Pages,
		ISBN:          &in.ISBN,
		Publisher:     &in.Publisher,
	}
}

// applyError distributes a submission error across the form.
func (f *BookForm) applyError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		f.general = err.Error()
		return
	}

	if len(apiErr.Details) > 0 {
		for _, detail := range apiErr.Details {
			if _, taken := f.errors[detail.Field]; !taken {
				f.errors[detail.Field] = detail.Message
			}
		}
		return
	}

	// No structured details: guess the field from the message text.
	if field := matchField(apiErr.Message); field != "" {
		f.errors[field] = apiErr.Message
		return
	}
	f.general = apiErr.Message
}

// matchField maps an error message to a field by keyword. Used only as a
// fallback when the server sends no structured details.
func matchField(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "title"):
		return FieldTitle
	case strings.Contains(msg, "author"):
		return FieldAuthor
	case strings.Contains(msg, "genre"):
		return FieldGenre
	case strings.Contains(msg, "isbn"):
		return FieldISBN
	case strings.Contains(msg, "year"):
		return FieldPublishedYear
	case strings.Contains(msg, "pages"):
		return FieldPages
	case strings.Contains(msg, "cover") || strings.Contains(msg, "url"):
		return FieldCoverImageURL
	case strings.Contains(msg, "description"):
		return FieldDescription
	case strings.Contains(msg, "publisher"):
		return FieldPublisher
	}
	return ""
}
