package api

import (
	"net"
	"net/http"

	"github.com/shelfmarkapp/shelfmark-server/internal/http/response"
	"github.com/shelfmarkapp/shelfmark-server/internal/ratelimit"
)

// rateLimit returns middleware that throttles requests per client IP using
// the given limiter. A nil limiter disables throttling, which keeps test
// servers and local tooling unthrottled.
func (s *Server) rateLimit(limiter *ratelimit.KeyedRateLimiter, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(clientIP(r)) {
				response.TooManyRequests(w, message, s.logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address for rate limit keying. RemoteAddr has
// already been rewritten by the RealIP middleware when the request came
// through a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
