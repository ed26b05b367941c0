// Package service provides the business logic layer for managing the book catalog.
package service

import (
	"context"
	"log/slog"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

// BookService orchestrates book operations: validation, then storage.
type BookService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(st *store.Store, validator *validation.Validator, logger *slog.Logger) *BookService {
	return &BookService{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// ListBooks returns a filtered, sorted page of the catalog.
func (s *BookService) ListBooks(ctx context.Context, query store.ListQuery) (*store.ListResult, error) {
	return s.store.ListBooks(ctx, query)
}

// GetBook retrieves a single book by ID.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, bookID)
}

// CreateBook validates the input and persists a new book. The returned book
// carries the assigned ID and timestamps.
func (s *BookService) CreateBook(ctx context.Context, input *domain.BookInput) (*domain.Book, error) {
	input.Normalize()
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	book := input.ToBook()
	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info("Book created", "bookId", book.ID, "title", book.Title)
	return book, nil
}

// UpdateBook applies a partial update to an existing book. Omitted fields
// keep their stored values; the merged record is revalidated as a whole
// before it is written.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, patch *domain.BookPatch) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	patch.Apply(book)

	input := book.Input()
	input.Normalize()
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	book.SetInput(input)

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info("Book updated", "bookId", book.ID)
	return book, nil
}

// DeleteBook removes a book from the catalog.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return err
	}

	s.logger.Info("Book deleted", "bookId", bookID)
	return nil
}
