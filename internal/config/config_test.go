package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "CHITTY_ID_TOKEN",
		"CHITTYID_URL", "REDIS_ADDR", "ALLOWED_ORIGINS", "CURRENCY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.ChittyIDURL != "https://id.chitty.cc" {
		t.Errorf("expected default ChittyID url, got %q", cfg.ChittyIDURL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("expected default Redis addr, got %q", cfg.RedisAddr)
	}
	if cfg.Currency != "usd" {
		t.Errorf("expected currency usd, got %q", cfg.Currency)
	}
	wantOrigins := []string{"https://chitty.cc", "https://*.chitty.cc"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, wantOrigins) {
		t.Errorf("expected origins %v, got %v", wantOrigins, cfg.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("CHITTY_ID_TOKEN", "token-123")
	t.Setenv("ALLOWED_ORIGINS", "https://example.com")
	t.Setenv("CURRENCY", "eur")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.StripeSecretKey != "sk_test_abc" {
		t.Errorf("expected stripe key from env, got %q", cfg.StripeSecretKey)
	}
	if cfg.ChittyIDToken != "token-123" {
		t.Errorf("expected chittyid token from env, got %q", cfg.ChittyIDToken)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://example.com"}) {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.Currency != "eur" {
		t.Errorf("expected currency eur, got %q", cfg.Currency)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		StripeSecretKey: "sk_test_abc",
		ChittyIDToken:   "token-123",
		RedisAddr:       "localhost:6379",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	missing := Config{RedisAddr: "localhost:6379"}
	err := missing.Validate()
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	for _, want := range []string{"STRIPE_SECRET_KEY", "CHITTY_ID_TOKEN"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to name %s, got %q", want, err)
		}
	}
	if strings.Contains(err.Error(), "REDIS_ADDR") {
		t.Errorf("did not expect REDIS_ADDR in %q", err)
	}
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "https://chitty.cc", want: []string{"https://chitty.cc"}},
		{name: "trims whitespace", input: " a , b ,c", want: []string{"a", "b", "c"}},
		{name: "drops empty entries", input: "a,,b,", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseCSV(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCSV(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
