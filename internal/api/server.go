// Package api provides the HTTP API server and handlers for the Shelfmark catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/http/response"
	"github.com/shelfmarkapp/shelfmark-server/internal/ratelimit"
	"github.com/shelfmarkapp/shelfmark-server/internal/search"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	bookService   *service.BookService
	searchIndex   *search.Index
	router        *chi.Mux
	logger        *slog.Logger
	allowedOrigin string

	generalLimiter *ratelimit.KeyedRateLimiter
	writeLimiter   *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, bookService *service.BookService, searchIndex *search.Index, logger *slog.Logger) *Server {
	s := &Server{
		bookService:   bookService,
		searchIndex:   searchIndex,
		router:        chi.NewRouter(),
		logger:        logger,
		allowedOrigin: cfg.Server.AllowedOrigin,
	}

	if cfg.RateLimit.Enabled {
		s.generalLimiter = ratelimit.New(cfg.RateLimit.GeneralLimit, cfg.RateLimit.Window)
		s.writeLimiter = ratelimit.New(cfg.RateLimit.WriteLimit, cfg.RateLimit.Window)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases resources held by the server's middleware.
func (s *Server) Close() {
	if s.generalLimiter != nil {
		s.generalLimiter.Stop()
	}
	if s.writeLimiter != nil {
		s.writeLimiter.Stop()
	}
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(s.rateLimit(s.generalLimiter,
		"Too many requests from this IP, please try again later."))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Write endpoints get a much tighter budget than reads.
	strict := s.rateLimit(s.writeLimiter,
		"Too many modification requests from this IP, please try again later.")

	s.router.Get("/api/health", s.handleHealthCheck)

	s.router.Route("/api/books", func(r chi.Router) {
		r.Get("/", s.handleListBooks)
		r.Get("/search", s.handleSearchBooks)
		r.Get("/{id}", s.handleGetBook)

		r.With(strict).Post("/", s.handleCreateBook)
		r.With(strict).Put("/{id}", s.handleUpdateBook)
		r.With(strict).Delete("/{id}", s.handleDeleteBook)
	})

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", s.logger)
	})
}
