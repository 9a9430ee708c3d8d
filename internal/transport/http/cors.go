package http

import (
	"net/http"
	"regexp"
	"strings"
)

// CORS stamps allow-list-derived CORS headers on every response and
// short-circuits OPTIONS preflights before auth, rate limiting, or routing.
// A disallowed origin gets the first allow-list entry rather than an echo, so
// the browser, not this service, rejects the cross-origin call.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowOrigin := origin
			if !originAllowed(origin, allowedOrigins) {
				allowOrigin = ""
				if len(allowedOrigins) > 0 {
					allowOrigin = allowedOrigins[0]
				}
			}
			if allowOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, ChittyID-Token")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed matches an origin against the allow-list: exact match, a lone
// "*" matching everything, or entries with a wildcard segment such as
// "https://*.chitty.cc".
func originAllowed(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			return true
		}
		if strings.Contains(allowed, "*") {
			pattern := "^" + strings.ReplaceAll(regexp.QuoteMeta(allowed), `\*`, ".*") + "$"
			if matched, err := regexp.MatchString(pattern, origin); err == nil && matched {
				return true
			}
			continue
		}
		if allowed == origin {
			return true
		}
	}
	return false
}
