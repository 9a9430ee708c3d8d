package http

import (
	"log"
	"net/http"

	"github.com/chittyapps/chittycharge/internal/domain"
	"github.com/chittyapps/chittycharge/internal/ratelimit"
)

// authHeader carries the shared secret and doubles as the rate-limit key.
const authHeader = "ChittyID-Token"

// Auth rejects requests whose ChittyID-Token header does not exactly match the
// configured token. It runs before rate limiting so an unauthenticated caller
// learns nothing about limit state.
func Auth(token string, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get(authHeader)
			if token == "" || supplied != token {
				writeError(w, logger, domain.NewUnauthorized())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit enforces the fixed-window limiter, keyed by the caller's token.
// Requests without one share a single anonymous bucket.
func RateLimit(limiter *ratelimit.Limiter, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(authHeader)
			if key == "" {
				key = "anonymous"
			}
			if err := limiter.Check(key); err != nil {
				writeError(w, logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
