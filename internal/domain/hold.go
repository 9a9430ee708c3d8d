package domain

import "time"

// Hold is an authorization hold as reported by the payment processor. The
// status vocabulary is owned by the processor and passed through verbatim.
type Hold struct {
	ID               string
	Status           string
	Amount           int64
	AmountCapturable int64
	AmountReceived   int64
	Currency         string
	ClientSecret     string
	CreatedAt        time.Time
}

// AmountRemaining is the authorized amount not yet captured.
func (h Hold) AmountRemaining() int64 {
	return h.Amount - h.AmountReceived
}

// HoldRecord is the hold-metadata document persisted in the key-value store,
// keyed by the processor's transaction id.
type HoldRecord struct {
	ID            string `json:"id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	PropertyID    string `json:"property_id,omitempty"`
	TenantID      string `json:"tenant_id,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// WebhookEvent is a signature-verified processor event.
type WebhookEvent struct {
	Type     string
	ObjectID string
}
