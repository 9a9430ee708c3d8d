package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS_AllowOriginResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		allowList   []string
		origin      string
		wantOrigin  string
	}{
		{
			name:       "allowed origin is echoed",
			allowList:  []string{"https://a.com", "https://b.com"},
			origin:     "https://a.com",
			wantOrigin: "https://a.com",
		},
		{
			name:       "disallowed origin falls back to first entry",
			allowList:  []string{"https://a.com", "https://b.com"},
			origin:     "https://evil.com",
			wantOrigin: "https://a.com",
		},
		{
			name:       "universal wildcard echoes the origin verbatim",
			allowList:  []string{"*"},
			origin:     "https://anything.example",
			wantOrigin: "https://anything.example",
		},
		{
			name:       "wildcard segment matches subdomains",
			allowList:  []string{"https://chitty.cc", "https://*.chitty.cc"},
			origin:     "https://app.chitty.cc",
			wantOrigin: "https://app.chitty.cc",
		},
		{
			name:       "wildcard segment rejects non-matching hosts",
			allowList:  []string{"https://*.chitty.cc"},
			origin:     "https://chittycc.evil.com",
			wantOrigin: "https://*.chitty.cc",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := CORS(tt.allowList)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("expected allow origin %q, got %q", tt.wantOrigin, got)
			}
		})
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	t.Parallel()

	handlerCalled := false
	handler := CORS([]string{"https://chitty.cc"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/holds", nil)
	req.Header.Set("Origin", "https://chitty.cc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if handlerCalled {
		t.Fatal("expected preflight to skip the next handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Fatalf("expected allow methods header, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, ChittyID-Token" {
		t.Fatalf("expected allow headers header, got %q", got)
	}
}
