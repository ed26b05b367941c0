// Package validation provides request validation built on the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for the book catalog.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error details
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	// Custom rules for the Book schema.
	must(v.RegisterValidation("pubyear", validatePublishedYear))
	must(v.RegisterValidation("isbn_pattern", validateISBNPattern))

	return &Validator{v: v}
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("register validation: %v", err))
	}
}

// Validate validates a struct and returns a domain validation error
// carrying one FieldError per violation, in field-declaration order.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to a domain error with details.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	details := make([]domainerrors.FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		details = append(details, domainerrors.FieldError{
			Field:   e.Field(),
			Message: friendlyMessage(e),
		})
	}

	return domainerrors.ValidationWithDetails("Validation failed", details)
}

// fieldLabels maps JSON field names to the labels used in messages.
var fieldLabels = map[string]string{
	"title":         "Title",
	"author":        "Author",
	"genre":         "Genre",
	"coverImageUrl": "Cover image URL",
	"description":   "Description",
	"publishedYear": "Published year",
	"pages":         "Pages",
	"isbn":          "ISBN",
	"publisher":     "Publisher",
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// friendlyMessage renders one violation as a human-readable message.
// Wording follows the catalog's established API responses.
func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return label(e.Field()) + " is required"
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot be more than %s characters", label(e.Field()), e.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", label(e.Field()), e.Param())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label(e.Field()), e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label(e.Field()), e.Param())
	case "url":
		return label(e.Field()) + " must be a valid URL"
	case "pubyear":
		return "Published year must be between 1000 and current year"
	case "isbn_pattern":
		return "Please enter a valid ISBN"
	default:
		return label(e.Field()) + " is invalid"
	}
}

// validatePublishedYear accepts years in [1000, current year].
// The upper bound tracks the clock, so a book cannot be published in the future.
func validatePublishedYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= 1000 && year <= int64(time.Now().Year())
}

// isbnChars matches the characters permitted in a written ISBN after the
// optional "ISBN" prefix: digits, separators, and an X check digit.
var isbnChars = regexp.MustCompile(`^[0-9Xx][0-9Xx -]*$`)

// validateISBNPattern accepts ISBN-10 and ISBN-13 in compact, hyphenated,
// or spaced form, with or without an "ISBN"/"ISBN-10:"/"ISBN-13:" prefix.
// This is a pattern check only; checksum verification is out of scope,
// matching the catalog's historical behavior.
func validateISBNPattern(fl validator.FieldLevel) bool {
	return IsISBN(fl.Field().String())
}

// IsISBN reports whether s looks like a valid ISBN-10 or ISBN-13.
func IsISBN(s string) bool {
	s = strings.TrimSpace(s)

	// Strip optional prefix.
	for _, p := range []string{"ISBN-13:", "ISBN-10:", "ISBN:", "ISBN"} {
		if rest, ok := strings.CutPrefix(s, p); ok {
			s = strings.TrimSpace(rest)
			break
		}
	}

	if s == "" || !isbnChars.MatchString(s) {
		return false
	}

	// Separators may appear between groups but not run together or
	// bracket the number.
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") ||
		strings.Contains(s, "--") || strings.Contains(s, "  ") {
		return false
	}

	compact := strings.Map(func(c rune) rune {
		if c == '-' || c == ' ' {
			return -1
		}
		if c == 'x' {
			return 'X'
		}
		return c
	}, s)

	switch len(compact) {
	case 10:
		// First nine characters are digits; the check digit may be X.
		for _, c := range compact[:9] {
			if c < '0' || c > '9' {
				return false
			}
		}
		last := compact[9]
		return (last >= '0' && last <= '9') || last == 'X'
	case 13:
		if !strings.HasPrefix(compact, "978") && !strings.HasPrefix(compact, "979") {
			return false
		}
		for _, c := range compact {
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	default:
		return false
	}
}
