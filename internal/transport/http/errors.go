package http

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/chittyapps/chittycharge/internal/domain"
)

// handlerFunc is a handler that reports failure instead of writing it. Every
// failure from any pipeline stage funnels through writeError exactly once.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func handle(logger *log.Logger, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			writeError(w, logger, err)
		}
	}
}

// writeError maps a failure to an HTTP response. Typed domain errors are
// expected control flow and are not logged; anything else is logged and
// surfaced as a 500 with the underlying message only, never a stack trace.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		if domainErr.RetryAfter > 0 {
			seconds := int(math.Ceil(domainErr.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
		}
		body := map[string]any{"error": domainErr.Message}
		for key, value := range domainErr.Details {
			body[key] = value
		}
		writeJSON(w, domainErr.Status, body)
		return
	}

	logger.Printf("ERROR: unexpected error: %v", err)
	message := "Internal server error"
	if err != nil {
		message = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(body)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}
	_, _ = w.Write(payload)
}
