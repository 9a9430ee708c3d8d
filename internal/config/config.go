package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

const (
	ServiceName    = "chittycharge"
	ServiceVersion = "1.0.0"

	// RateLimitRequests caps authenticated callers per fixed window.
	RateLimitRequests = 10
	RateLimitWindow   = time.Minute

	// HoldTTL bounds how long hold metadata and ChittyID mappings live in the store.
	HoldTTL = 30 * 24 * time.Hour

	// CaptureAttemptWindow is how long a recorded capture attempt blocks a
	// conflicting amount for the same hold.
	CaptureAttemptWindow = 5 * time.Minute

	// MinHoldAmount is the smallest hold the processor accepts, in minor units.
	MinHoldAmount = 50
)

const (
	defaultPort           = "8080"
	defaultCurrency       = "usd"
	defaultChittyIDURL    = "https://id.chitty.cc"
	defaultAllowedOrigins = "https://chitty.cc,https://*.chitty.cc"
)

// Config carries everything cmd/api needs to wire the service.
type Config struct {
	Port                string
	StripeSecretKey     string
	StripeWebhookSecret string
	ChittyIDToken       string
	ChittyIDURL         string
	RedisAddr           string
	AllowedOrigins      []string
	Currency            string
}

// Load reads configuration from the environment, applying defaults for the
// optional values.
func Load() Config {
	return Config{
		Port:                envOr("PORT", defaultPort),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		ChittyIDToken:       os.Getenv("CHITTY_ID_TOKEN"),
		ChittyIDURL:         envOr("CHITTYID_URL", defaultChittyIDURL),
		RedisAddr:           envOr("REDIS_ADDR", "localhost:6379"),
		AllowedOrigins:      ParseCSV(envOr("ALLOWED_ORIGINS", defaultAllowedOrigins)),
		Currency:            envOr("CURRENCY", defaultCurrency),
	}
}

// Validate checks the collaborator credentials the service cannot run without.
func (c Config) Validate() error {
	var missing []string
	if c.StripeSecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.ChittyIDToken == "" {
		missing = append(missing, "CHITTY_ID_TOKEN")
	}
	if c.RedisAddr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

// ParseCSV splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func ParseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
