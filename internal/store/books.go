package store

import (
	"context"
	"encoding/json/v2"

	"github.com/dgraph-io/badger/v4"
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
)

const (
	bookKeyPrefix = "book:"
	// Secondary index keyed by normalized ISBN. The value is the book ID
	// that owns the ISBN, written in the same transaction as the book so
	// uniqueness holds across concurrent creates.
	isbnIndexPrefix = "idx:books:isbn:"
)

func bookKey(bookID string) []byte {
	return []byte(bookKeyPrefix + bookID)
}

func isbnIndexKey(isbn string) []byte {
	return []byte(isbnIndexPrefix + domain.NormalizeISBN(isbn))
}

// CreateBook persists a new book. The store assigns the ID and timestamps;
// callers pass a book built from validated input. Returns ErrDuplicateISBN
// when another book already owns the same normalized ISBN.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if book.ID == "" {
		bookID, err := id.NewBookID()
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "Failed to generate book ID")
		}
		book.ID = bookID
	}
	book.InitTimestamps()

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := s.claimISBN(txn, book); err != nil {
			return err
		}

		data, err := json.Marshal(book)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "Failed to marshal book")
		}
		return txn.Set(bookKey(book.ID), data)
	})
	if err != nil {
		return asDomainError(err, "Failed to create book")
	}

	s.indexForSearch(ctx, book)
	return nil
}

// GetBook retrieves a book by ID. Returns ErrInvalidID for malformed IDs
// and ErrNotFound when no book exists under the given ID.
func (s *Store) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	if !id.IsValidBookID(bookID) {
		return nil, errors.InvalidID("Invalid book ID")
	}

	var book domain.Book
	if err := s.get(bookKey(bookID), &book); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, errors.NotFound("Book not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "Failed to get book")
	}
	return &book, nil
}

// UpdateBook replaces the stored record for book.ID and refreshes UpdatedAt.
// CreatedAt is preserved from the existing record. The ISBN index is moved
// inside the same transaction when the ISBN changes.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	if !id.IsValidBookID(book.ID) {
		return errors.InvalidID("Invalid book ID")
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := readBook(txn, book.ID)
		if err != nil {
			return err
		}

		book.CreatedAt = existing.CreatedAt
		book.Touch()

		if domain.NormalizeISBN(existing.ISBN) != domain.NormalizeISBN(book.ISBN) {
			if existing.ISBN != "" {
				if err := txn.Delete(isbnIndexKey(existing.ISBN)); err != nil {
					return err
				}
			}
			if err := s.claimISBN(txn, book); err != nil {
				return err
			}
		}

		data, err := json.Marshal(book)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "Failed to marshal book")
		}
		return txn.Set(bookKey(book.ID), data)
	})
	if err != nil {
		return asDomainError(err, "Failed to update book")
	}

	s.indexForSearch(ctx, book)
	return nil
}

// DeleteBook removes a book and its ISBN index entry.
func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	if !id.IsValidBookID(bookID) {
		return errors.InvalidID("Invalid book ID")
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := readBook(txn, bookID)
		if err != nil {
			return err
		}

		if existing.ISBN != "" {
			if err := txn.Delete(isbnIndexKey(existing.ISBN)); err != nil {
				return err
			}
		}
		return txn.Delete(bookKey(bookID))
	})
	if err != nil {
		return asDomainError(err, "Failed to delete book")
	}

	if s.searchIndexer != nil {
		if err := s.searchIndexer.DeleteBook(ctx, bookID); err != nil && s.logger != nil {
			s.logger.Warn("Failed to remove book from search index", "bookId", bookID, "error", err)
		}
	}
	return nil
}

// ListAllBooks returns every book in the store. The catalog is small enough
// that list queries filter and sort in memory over this snapshot.
func (s *Store) ListAllBooks(ctx context.Context) ([]*domain.Book, error) {
	var books []*domain.Book

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var book domain.Book
				if err := json.Unmarshal(val, &book); err != nil {
					return err
				}
				books = append(books, &book)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "Failed to list books")
	}

	return books, nil
}

// CountBooks returns the number of books without decoding record values.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookKeyPrefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "Failed to count books")
	}

	return count, nil
}

// ListBooks runs a list query against the full catalog: filter, sort, then
// paginate. Always returns a result with pagination metadata, even when no
// books match.
func (s *Store) ListBooks(ctx context.Context, query ListQuery) (*ListResult, error) {
	books, err := s.ListAllBooks(ctx)
	if err != nil {
		return nil, err
	}
	return query.Run(books), nil
}

// claimISBN writes the ISBN index entry for book, failing with
// ErrDuplicateISBN when the normalized ISBN already belongs to another book.
// No-op for books without an ISBN.
func (s *Store) claimISBN(txn *badger.Txn, book *domain.Book) error {
	if book.ISBN == "" {
		return nil
	}

	key := isbnIndexKey(book.ISBN)
	item, err := txn.Get(key)
	if err == nil {
		var ownerID string
		if verr := item.Value(func(val []byte) error {
			ownerID = string(val)
			return nil
		}); verr != nil {
			return verr
		}
		if ownerID != book.ID {
			return errors.DuplicateISBN("A book with this ISBN already exists")
		}
		return nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}

	return txn.Set(key, []byte(book.ID))
}

// readBook loads a book inside an open transaction, mapping missing keys to
// the domain not-found error.
func readBook(txn *badger.Txn, bookID string) (*domain.Book, error) {
	item, err := txn.Get(bookKey(bookID))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, errors.NotFound("Book not found")
		}
		return nil, err
	}

	var book domain.Book
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &book)
	}); err != nil {
		return nil, err
	}
	return &book, nil
}

// indexForSearch publishes a write to the search index. Index failures are
// logged, not returned: the store stays the source of truth.
func (s *Store) indexForSearch(ctx context.Context, book *domain.Book) {
	if s.searchIndexer == nil {
		return
	}
	if err := s.searchIndexer.IndexBook(ctx, book); err != nil && s.logger != nil {
		s.logger.Warn("Failed to index book for search", "bookId", book.ID, "error", err)
	}
}

// asDomainError passes through typed domain errors and wraps anything else
// as internal. Keeps Badger errors from leaking to handlers.
func asDomainError(err error, msg string) error {
	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return errors.Wrap(err, errors.CodeInternal, msg)
}
