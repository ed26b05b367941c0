package api

import (
	"net/http"
	"strconv"

	"github.com/shelfmarkapp/shelfmark-server/internal/http/response"
	"github.com/shelfmarkapp/shelfmark-server/internal/search"
)

// handleSearchBooks runs a relevance-ranked full-text search over the
// catalog. Unlike the list endpoint's exact substring filter, this endpoint
// stems, tolerates typos, and matches prefixes.
// GET /api/books/search?q=&genre=&minYear=&maxYear=&limit=&offset=&sortBy=&sortOrder=
func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	queryParams := r.URL.Query()

	params := search.DefaultParams()
	params.Query = queryParams.Get("q")
	params.Genre = queryParams.Get("genre")

	if minYearStr := queryParams.Get("minYear"); minYearStr != "" {
		if minYear, err := strconv.Atoi(minYearStr); err == nil {
			params.MinYear = minYear
		}
	}
	if maxYearStr := queryParams.Get("maxYear"); maxYearStr != "" {
		if maxYear, err := strconv.Atoi(maxYearStr); err == nil {
			params.MaxYear = maxYear
		}
	}

	if limitStr := queryParams.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			params.Limit = limit
		}
	}
	if offsetStr := queryParams.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	if sortBy := queryParams.Get("sortBy"); sortBy != "" {
		params.SortBy = sortBy
	}
	if sortOrder := queryParams.Get("sortOrder"); sortOrder != "" {
		params.SortOrder = sortOrder
	}

	result, err := s.searchIndex.Search(ctx, params)
	if err != nil {
		s.logger.Error("Search failed", "error", err, "query", params.Query)
		response.InternalError(w, "Server error while searching books", s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
