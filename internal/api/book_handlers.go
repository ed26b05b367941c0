package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/http/response"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
)

// handleListBooks returns a filtered, sorted page of the catalog.
// GET /api/books?page=&limit=&search=&genre=&sortBy=&sortOrder=
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := parseListQuery(r)

	result, err := s.bookService.ListBooks(ctx, query)
	if err != nil {
		s.logger.Error("Failed to list books", "error", err)
		response.InternalError(w, "Server error while fetching books", s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleGetBook returns a single book by ID.
// GET /api/books/{id}
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookID := chi.URLParam(r, "id")

	book, err := s.bookService.GetBook(ctx, bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleCreateBook creates a new book from the request body.
// POST /api/books
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input domain.BookInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.bookService.CreateBook(ctx, &input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, book, s.logger)
}

// handleUpdateBook applies a partial update to a book. Fields absent from
// the body keep their stored values; the merged record is revalidated.
// PUT /api/books/{id}
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookID := chi.URLParam(r, "id")

	var patch domain.BookPatch
	if err := json.UnmarshalRead(r.Body, &patch); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.bookService.UpdateBook(ctx, bookID, &patch)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleDeleteBook removes a book from the catalog.
// DELETE /api/books/{id}
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookID := chi.URLParam(r, "id")

	if err := s.bookService.DeleteBook(ctx, bookID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{
		"message": "Book deleted successfully",
	}, s.logger)
}

// parseListQuery builds a list query from the request's query string.
// Malformed numeric values fall back to defaults rather than erroring.
func parseListQuery(r *http.Request) store.ListQuery {
	query := store.DefaultListQuery()
	params := r.URL.Query()

	if pageStr := params.Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			query.Page = page
		}
	}
	if limitStr := params.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			query.Limit = limit
		}
	}

	query.Search = params.Get("search")
	query.Genre = params.Get("genre")

	if sortBy := params.Get("sortBy"); sortBy != "" {
		query.SortBy = sortBy
	}
	if sortOrder := params.Get("sortOrder"); sortOrder != "" {
		query.SortOrder = sortOrder
	}

	query.Normalize()
	return query
}
