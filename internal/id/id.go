// Package id generates and validates prefixed record identifiers.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// BookPrefix is the identifier prefix for book records.
const BookPrefix = "book"

// nanoidLength is the default NanoID length (21 characters, URL-safe alphabet).
const nanoidLength = 21

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "book-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// NewBookID generates a fresh book identifier.
func NewBookID() (string, error) {
	return Generate(BookPrefix)
}

// IsValid reports whether s has the shape of an identifier produced by
// Generate with the given prefix. Identifiers that fail this check are
// rejected as malformed before any store lookup, so that a garbled ID is
// distinguishable from a well-formed ID that simply does not exist.
func IsValid(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix+"-")
	if !ok || len(rest) != nanoidLength {
		return false
	}
	for _, c := range rest {
		if !isURLSafe(c) {
			return false
		}
	}
	return true
}

// IsValidBookID reports whether s is a well-formed book identifier.
func IsValidBookID(s string) bool {
	return IsValid(s, BookPrefix)
}

func isURLSafe(c rune) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '-'
}
