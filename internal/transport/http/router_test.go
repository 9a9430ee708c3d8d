package http

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chittyapps/chittycharge/internal/clock"
	"github.com/chittyapps/chittycharge/internal/ratelimit"
)

func newTestRouter(svc *stubHoldService, limit int) http.Handler {
	logger := log.New(&bytes.Buffer{}, "", 0)
	clk := clock.NewFixed(testNow)
	return NewRouter(
		RouterConfig{
			AuthToken:          "secret-token",
			AllowedOrigins:     []string{"https://chitty.cc", "https://*.chitty.cc"},
			StripeConfigured:   true,
			ChittyIDConfigured: true,
		},
		svc,
		&stubVerifier{},
		ratelimit.New(limit, time.Minute, clk),
		clk,
		logger,
	)
}

func TestRouter_CreateHoldEndToEnd(t *testing.T) {
	t.Parallel()

	svc := &stubHoldService{createResult: successCreateResult()}
	router := newTestRouter(svc, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/holds",
		bytes.NewBufferString(`{"amount":10000,"description":"stay"}`))
	req.Header.Set("ChittyID-Token", "secret-token")
	req.Header.Set("Origin", "https://app.chitty.cc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"tier":"NEW_GUEST"`) {
		t.Fatalf("expected default tier in response, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"tier_limit":250000`) {
		t.Fatalf("expected tier limit in response, got %s", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.chitty.cc" {
		t.Fatalf("expected CORS echo, got %q", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestRouter_AuthRequired(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubHoldService{createResult: successCreateResult()}, 10)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token"},
		{name: "wrong token", token: "wrong"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/api/holds",
				bytes.NewBufferString(`{"amount":10000,"description":"stay"}`))
			if tt.token != "" {
				req.Header.Set("ChittyID-Token", tt.token)
			}
			req.Header.Set("Origin", "https://chitty.cc")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			// Error responses still carry CORS headers.
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://chitty.cc" {
				t.Fatalf("expected CORS header on error, got %q", got)
			}
		})
	}
}

func TestRouter_AuthRunsBeforeRateLimit(t *testing.T) {
	t.Parallel()

	// Unauthenticated requests must never reach the limiter: with a limit of
	// one, repeated tokenless requests would otherwise exhaust the anonymous
	// bucket and start answering 429 instead of 401.
	router := newTestRouter(&stubHoldService{}, 1)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/holds", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("request %d: expected 401 before rate limiting, got %d", i+1, rec.Code)
		}
	}
}

func TestRouter_RateLimitExceeded(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubHoldService{createResult: successCreateResult()}, 2)

	makeReq := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/holds",
			bytes.NewBufferString(`{"amount":10000,"description":"stay"}`))
		req.Header.Set("ChittyID-Token", "secret-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := makeReq(); rec.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i+1, rec.Code)
		}
	}

	rec := makeReq()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestRouter_PublicRoutesSkipAuth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubHoldService{}, 10)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unauthenticated health check, got %d", rec.Code)
	}
}

func TestRouter_OptionsShortCircuits(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubHoldService{}, 10)

	req := httptest.NewRequest(http.MethodOptions, "/api/holds", nil)
	req.Header.Set("Origin", "https://chitty.cc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 without auth, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://chitty.cc" {
		t.Fatalf("expected CORS headers, got %q", got)
	}
}

func TestRouter_UnmatchedRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubHoldService{hold: successCreateResult().Hold}, 10)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "unknown path", method: http.MethodGet, path: "/nope"},
		{name: "method mismatch on holds", method: http.MethodDelete, path: "/api/holds/pi_123"},
		{name: "method mismatch on health", method: http.MethodPost, path: "/health"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("ChittyID-Token", "secret-token")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"error":"Not found"`) {
				t.Fatalf("expected not found body, got %s", rec.Body.String())
			}
		})
	}
}
