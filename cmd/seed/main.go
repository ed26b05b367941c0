// Package main seeds the catalog with sample books for development.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/search"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

func intPtr(v int) *int { return &v }

var sampleBooks = []domain.BookInput{
	{
		Title:         "The Great Gatsby",
		Author:        "F. Scott Fitzgerald",
		Genre:         "Fiction",
		CoverImageURL: "https://covers.openlibrary.org/b/id/8225261-L.jpg",
		Description:   "A classic American novel set in the Jazz Age, exploring themes of wealth, love, and the American Dream.",
		PublishedYear: intPtr(1925),
		Pages:         intPtr(180),
		ISBN:          "978-0-7432-7356-5",
		Publisher:     "Scribner",
	},
	{
		Title:         "To Kill a Mockingbird",
		Author:        "Harper Lee",
		Genre:         "Fiction",
		CoverImageURL: "https://covers.openlibrary.org/b/id/8226374-L.jpg",
		Description:   "A gripping tale of racial injustice and childhood innocence in the American South.",
		PublishedYear: intPtr(1960),
		Pages:         intPtr(376),
		ISBN:          "978-0-06-112008-4",
		Publisher:     "J.B. Lippincott & Co.",
	},
	{
		Title:         "1984",
		Author:        "George Orwell",
		Genre:         "Dystopian Fiction",
		CoverImageURL: "https://covers.openlibrary.org/b/id/8225261-L.jpg",
		Description:   "A dystopian social science fiction novel about totalitarian control and surveillance.",
		PublishedYear: intPtr(1949),
		Pages:         intPtr(328),
		ISBN:          "978-0-452-28423-4",
		Publisher:     "Secker & Warburg",
	},
	{
		Title:         "Pride and Prejudice",
		Author:        "Jane Austen",
		Genre:         "Romance",
		CoverImageURL: "https://covers.openlibrary.org/b/id/8226374-L.jpg",
		Description:   "A romantic novel that critiques the British landed gentry at the end of the 18th century.",
		PublishedYear: intPtr(1813),
		Pages:         intPtr(432),
		ISBN:          "978-0-14-143951-8",
		Publisher:     "T. Egerton",
	},
	{
		Title:         "The Catcher in the Rye",
		Author:        "J.D. Salinger",
		Genre:         "Fiction",
		Description:   "A controversial novel about teenage rebellion and alienation in post-war America.",
		PublishedYear: intPtr(1951),
		Pages:         intPtr(277),
		ISBN:          "978-0-316-76948-0",
		Publisher:     "Little, Brown and Company",
	},
}

func main() {
	wipe := flag.Bool("wipe", true, "Remove existing books before seeding")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	if err := run(cfg, log, *wipe); err != nil {
		log.Fatal("Seeding failed", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger, wipe bool) error {
	ctx := context.Background()

	st, err := store.New(filepath.Join(cfg.Data.BasePath, "db"), log.Logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	defer index.Close()

	st.SetSearchIndexer(index)

	if wipe {
		existing, err := st.ListAllBooks(ctx)
		if err != nil {
			return fmt.Errorf("list existing books: %w", err)
		}
		log.Info("Clearing existing books", "count", len(existing))
		for _, book := range existing {
			if err := st.DeleteBook(ctx, book.ID); err != nil {
				return fmt.Errorf("delete book %s: %w", book.ID, err)
			}
		}

		// The index may still hold documents for books the store no
		// longer knows about; start it over from scratch.
		if err := index.Rebuild(); err != nil {
			return fmt.Errorf("rebuild search index: %w", err)
		}
	}

	validator := validation.New()

	log.Info("Inserting sample books", "count", len(sampleBooks))
	for i := range sampleBooks {
		input := sampleBooks[i]
		input.Normalize()
		if err := validator.Validate(&input); err != nil {
			return fmt.Errorf("invalid sample book %q: %w", input.Title, err)
		}

		book := input.ToBook()
		if err := st.CreateBook(ctx, book); err != nil {
			return fmt.Errorf("create book %q: %w", input.Title, err)
		}
		log.Info("Seeded book", "title", book.Title, "author", book.Author, "bookId", book.ID)
	}

	total, err := st.CountBooks(ctx)
	if err != nil {
		return err
	}
	log.Info("Seeding complete", "totalBooks", total)

	return nil
}
