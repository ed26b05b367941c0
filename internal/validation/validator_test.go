package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validInput() *domain.BookInput {
	return &domain.BookInput{
		Title:  "The Great Gatsby",
		Author: "F. Scott Fitzgerald",
	}
}

func validationDetails(t *testing.T, err error) []errors.FieldError {
	t.Helper()
	require.Error(t, err)

	var domainErr *errors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, errors.CodeValidation, domainErr.Code)
	assert.Equal(t, "Validation failed", domainErr.Message)
	return domainErr.Details
}

func TestValidate_ValidInput(t *testing.T) {
	v := New()

	input := validInput()
	input.Genre = "Fiction"
	input.CoverImageURL = "https://covers.openlibrary.org/b/id/8225261-L.jpg"
	input.Description = "A classic."
	input.PublishedYear = intPtr(1925)
	input.Pages = intPtr(180)
	input.ISBN = "978-0-7432-7356-5"
	input.Publisher = "Scribner"

	assert.NoError(t, v.Validate(input))
}

func TestValidate_RequiredFields(t *testing.T) {
	v := New()

	details := validationDetails(t, v.Validate(&domain.BookInput{}))
	require.Len(t, details, 2)

	// Details follow field declaration order.
	assert.Equal(t, "title", details[0].Field)
	assert.Equal(t, "Title is required", details[0].Message)
	assert.Equal(t, "author", details[1].Field)
	assert.Equal(t, "Author is required", details[1].Message)
}

func TestValidate_TitleTooLong(t *testing.T) {
	v := New()

	input := validInput()
	input.Title = strings.Repeat("a", 201)

	details := validationDetails(t, v.Validate(input))
	require.Len(t, details, 1)
	assert.Equal(t, "title", details[0].Field)
	assert.Equal(t, "Title cannot be more than 200 characters", details[0].Message)
}

func TestValidate_CoverImageURL(t *testing.T) {
	v := New()

	input := validInput()
	input.CoverImageURL = "not a url"

	details := validationDetails(t, v.Validate(input))
	require.Len(t, details, 1)
	assert.Equal(t, "coverImageUrl", details[0].Field)
	assert.Equal(t, "Cover image URL must be a valid URL", details[0].Message)
}

func TestValidate_PublishedYearBounds(t *testing.T) {
	v := New()

	input := validInput()
	input.PublishedYear = intPtr(999)
	details := validationDetails(t, v.Validate(input))
	require.Len(t, details, 1)
	assert.Equal(t, "publishedYear", details[0].Field)
	assert.Equal(t, "Published year must be between 1000 and current year", details[0].Message)

	input.PublishedYear = intPtr(time.Now().Year() + 1)
	details = validationDetails(t, v.Validate(input))
	require.Len(t, details, 1)
	assert.Equal(t, "publishedYear", details[0].Field)

	input.PublishedYear = intPtr(time.Now().Year())
	assert.NoError(t, v.Validate(input))

	// Optional: nil is fine.
	input.PublishedYear = nil
	assert.NoError(t, v.Validate(input))
}

func TestValidate_Pages(t *testing.T) {
	v := New()

	input := validInput()
	input.Pages = intPtr(0)
	details := validationDetails(t, v.Validate(input))
	require.Len(t, details, 1)
	assert.Equal(t, "pages", details[0].Field)

	input.Pages = intPtr(10001)
	details = validationDetails(t, v.Validate(input))
	require.Len(t, details, 1)
	assert.Equal(t, "pages", details[0].Field)

	input.Pages = intPtr(350)
	assert.NoError(t, v.Validate(input))
}

func TestValidate_ISBNMessage(t *testing.T) {
	v := New()

	input := validInput()
	input.ISBN = "not-an-isbn"

	details := validationDetails(t, v.Validate(input))
	require.Len(t, details, 1)
	assert.Equal(t, "isbn", details[0].Field)
	assert.Equal(t, "Please enter a valid ISBN", details[0].Message)
}

func TestValidate_MultipleViolationsInOrder(t *testing.T) {
	v := New()

	input := &domain.BookInput{
		Author: strings.Repeat("b", 101),
		ISBN:   "bogus",
	}

	details := validationDetails(t, v.Validate(input))
	require.Len(t, details, 3)
	assert.Equal(t, "title", details[0].Field)
	assert.Equal(t, "author", details[1].Field)
	assert.Equal(t, "isbn", details[2].Field)
}

func TestIsISBN(t *testing.T) {
	valid := []string{
		"978-0-7432-7356-5",
		"9780743273565",
		"978 0 7432 7356 5",
		"979-10-90636-07-1",
		"0-7432-7356-7",
		"074327356X",
		"074327356x",
		"ISBN 978-0-7432-7356-5",
		"ISBN-13: 9780743273565",
		"ISBN-10: 074327356X",
		"ISBN:0743273567",
	}
	for _, s := range valid {
		assert.True(t, IsISBN(s), "expected valid: %q", s)
	}

	invalid := []string{
		"",
		"abc",
		"123",
		"978074327356",    // 12 digits
		"97807432735650",  // 14 digits
		"1234567890123",   // 13 digits without 978/979 prefix
		"978--0743273565", // double separator
		"-9780743273565",  // leading separator
		"9780743273565-",  // trailing separator
		"07432X7356X",     // X in the middle of an ISBN-10
		"978074327356X",   // X in an ISBN-13
	}
	for _, s := range invalid {
		assert.False(t, IsISBN(s), "expected invalid: %q", s)
	}
}
