// Package chittyid talks to the central ChittyID authority. ChittyIDs are
// never generated locally; the one exception is the explicitly-marked
// placeholder returned when the authority is unreachable.
package chittyid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/chittyapps/chittycharge/internal/app"
	"github.com/chittyapps/chittycharge/internal/clock"
)

const mintEndpoint = "/v1/mint"

// Client mints ChittyIDs over HTTP with bearer-token auth.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	clock      clock.Clock
	logger     *log.Logger
}

// New returns a minting client for the given authority base URL.
func New(baseURL, token string, clk clock.Clock, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		clock:      clk,
		logger:     logger,
	}
}

type mintRequest struct {
	EntityType string         `json:"entity_type"`
	Metadata   map[string]any `json:"metadata"`
}

type mintResponse struct {
	ChittyID string `json:"chitty_id"`
}

// Mint requests a new ChittyID for the given entity type. It never fails the
// caller: when the authority is unreachable or rejects the request, it logs
// the failure and returns a placeholder id flagged as non-authoritative, an
// availability-over-strict-correctness tradeoff made deliberately at creation
// time.
func (c *Client) Mint(ctx context.Context, entityType string, metadata map[string]any) app.MintResult {
	id, err := c.mint(ctx, entityType, metadata)
	if err != nil {
		c.logger.Printf("WARN: chittyid mint failed, using placeholder: %v", err)
		return app.MintResult{
			ChittyID:    fmt.Sprintf("CHITTY-%s-PENDING-%d", entityType, c.clock.Now().UnixMilli()),
			Placeholder: true,
		}
	}
	if id == "" {
		return app.MintResult{
			ChittyID:    fmt.Sprintf("CHITTY-%s-FALLBACK", entityType),
			Placeholder: true,
		}
	}
	return app.MintResult{ChittyID: id}
}

func (c *Client) mint(ctx context.Context, entityType string, metadata map[string]any) (string, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	body, err := json.Marshal(mintRequest{EntityType: entityType, Metadata: metadata})
	if err != nil {
		return "", fmt.Errorf("encode mint request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+mintEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build mint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mint request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("mint failed: %s", res.Status)
	}

	var payload mintResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode mint response: %w", err)
	}
	return payload.ChittyID, nil
}
