// Package search provides full-text book search using Bleve. It backs the
// dedicated search endpoint with relevance ranking, fuzzy matching for
// typo tolerance, and genre faceting.
package search

import (
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

// BookDocument is the flattened book representation stored in the Bleve
// index. The store remains the source of truth; the index holds only what
// search needs to rank and render hits.
type BookDocument struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre,omitempty"`
	Description   string `json:"description,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	PublishedYear int    `json:"published_year,omitempty"`
	Pages         int    `json:"pages,omitempty"`
	CreatedAt     int64  `json:"created_at"` // Unix millis
	UpdatedAt     int64  `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but the
// mapping uses lowercase names, so we convert explicitly.
func (d *BookDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"author":     d.Author,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Genre != "" {
		m["genre"] = d.Genre
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}
	if d.ISBN != "" {
		m["isbn"] = d.ISBN
	}
	if d.PublishedYear > 0 {
		m["published_year"] = d.PublishedYear
	}
	if d.Pages > 0 {
		m["pages"] = d.Pages
	}

	return m
}

// BookToDocument converts a domain Book for indexing.
func BookToDocument(book *domain.Book) *BookDocument {
	doc := &BookDocument{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Genre:       book.Genre,
		Description: book.Description,
		Publisher:   book.Publisher,
		ISBN:        domain.NormalizeISBN(book.ISBN),
		CreatedAt:   book.CreatedAt.UnixMilli(),
		UpdatedAt:   book.UpdatedAt.UnixMilli(),
	}

	if book.PublishedYear != nil {
		doc.PublishedYear = *book.PublishedYear
	}
	if book.Pages != nil {
		doc.Pages = *book.Pages
	}

	return doc
}
