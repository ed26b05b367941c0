package api

import (
	"net/http"
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/http/response"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// handleHealthCheck reports server liveness.
// GET /api/health
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, HealthResponse{
		Success:   true,
		Message:   "Book API Server is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, s.logger)
}
