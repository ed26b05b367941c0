// Package client is a Go client for the Shelfmark book catalog API. It
// covers the full REST surface and adds live list queries (BookQuery) and
// form submission with field-level error mapping (BookForm).
package client

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Book is a catalog record as returned by the API.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre,omitempty"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	Description   string    `json:"description,omitempty"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	Pages         *int      `json:"pages,omitempty"`
	ISBN          string    `json:"isbn,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookInput is the payload for creating a book.
type BookInput struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre,omitempty"`
	CoverImageURL string `json:"coverImageUrl,omitempty"`
	Description   string `json:"description,omitempty"`
	PublishedYear *int   `json:"publishedYear,omitempty"`
	Pages         *int   `json:"pages,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
}

// BookPatch is a partial update. Nil pointers are omitted from the payload
// and leave the stored value unchanged; a pointer to a zero value is sent
// and clears the field.
type BookPatch struct {
	Title         *string `json:"title,omitzero"`
	Author        *string `json:"author,omitzero"`
	Genre         *string `json:"genre,omitzero"`
	CoverImageURL *string `json:"coverImageUrl,omitzero"`
	Description   *string `json:"description,omitzero"`
	PublishedYear *int    `json:"publishedYear,omitzero"`
	Pages         *int    `json:"pages,omitzero"`
	ISBN          *string `json:"isbn,omitzero"`
	Publisher     *string `json:"publisher,omitzero"`
}

// BookList is a page of books with pagination metadata.
type BookList struct {
	Books       []Book `json:"books"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	Total       int    `json:"total"`
}

// ListParams filters and paginates a book listing. Zero values are omitted
// and fall back to server defaults.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	Genre     string
	SortBy    string
	SortOrder string
}

// SearchParams drives the full-text search endpoint. Zero values are
// omitted from the query string, leaving the server defaults in effect.
type SearchParams struct {
	Query     string
	Genre     string
	MinYear   int
	MaxYear   int
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// SearchResult is a relevance-ranked page of search hits.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"tookMs"`
	Hits   []SearchHit  `json:"hits"`
	Genres []FacetCount `json:"genres,omitempty"`
}

// SearchHit is a single scored match. Highlights hold HTML fragments with
// the matched terms marked up, keyed by field name.
type SearchHit struct {
	ID            string            `json:"id"`
	Score         float64           `json:"score"`
	Title         string            `json:"title"`
	Author        string            `json:"author"`
	Genre         string            `json:"genre,omitempty"`
	Publisher     string            `json:"publisher,omitempty"`
	PublishedYear int               `json:"publishedYear,omitempty"`
	Highlights    map[string]string `json:"highlights,omitempty"`
}

// FacetCount is one bucket of the genre facet.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Health is the server health payload.
type Health struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// FieldError is a structured validation failure for one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Details    []FieldError
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// errorBody mirrors the server's error envelope.
type errorBody struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details"`
}

// Client talks to a Shelfmark server. Construct one with New and share it;
// all methods are safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string
	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
	// Logger for request diagnostics; discarded if nil.
	Logger *slog.Logger
}

// New creates a new API client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// ListBooks fetches a page of the catalog.
func (c *Client) ListBooks(ctx context.Context, params ListParams) (*BookList, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Genre != "" {
		query.Set("genre", params.Genre)
	}
	if params.SortBy != "" {
		query.Set("sortBy", params.SortBy)
	}
	if params.SortOrder != "" {
		query.Set("sortOrder", params.SortOrder)
	}

	var list BookList
	if err := c.request(ctx, http.MethodGet, "/books", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Search runs a relevance-ranked full-text search. Unlike ListBooks' exact
// substring filter it stems, tolerates typos, and matches prefixes.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	query := url.Values{}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.Genre != "" {
		query.Set("genre", params.Genre)
	}
	if params.MinYear > 0 {
		query.Set("minYear", strconv.Itoa(params.MinYear))
	}
	if params.MaxYear > 0 {
		query.Set("maxYear", strconv.Itoa(params.MaxYear))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.SortBy != "" {
		query.Set("sortBy", params.SortBy)
	}
	if params.SortOrder != "" {
		query.Set("sortOrder", params.SortOrder)
	}

	var result SearchResult
	if err := c.request(ctx, http.MethodGet, "/books/search", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBook fetches a single book by ID.
func (c *Client) GetBook(ctx context.Context, id string) (*Book, error) {
	var book Book
	if err := c.request(ctx, http.MethodGet, "/books/"+url.PathEscape(id), nil, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook creates a new book and returns it with server-assigned ID and
// timestamps.
func (c *Client) CreateBook(ctx context.Context, input BookInput) (*Book, error) {
	var book Book
	if err := c.request(ctx, http.MethodPost, "/books", nil, input, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook applies a partial update and returns the updated record.
func (c *Client) UpdateBook(ctx context.Context, id string, patch BookPatch) (*Book, error) {
	var book Book
	if err := c.request(ctx, http.MethodPut, "/books/"+url.PathEscape(id), nil, patch, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a book.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil, nil)
}

// HealthCheck probes server liveness.
func (c *Client) HealthCheck(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.request(ctx, http.MethodGet, "/health", nil, nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// request performs an HTTP round trip, encoding body as JSON when non-nil
// and decoding the response into out. Non-2xx responses become *APIError.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = strings.NewReader(string(data))
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var envelope errorBody
		if err := json.UnmarshalRead(resp.Body, &envelope); err == nil {
			apiErr.Message = envelope.Error
			apiErr.Details = envelope.Details
		}
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}

		c.logger.Debug("Request failed",
			"method", method, "path", path, "status", resp.StatusCode, "error", apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.UnmarshalRead(resp.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
