package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chittyapps/chittycharge/internal/clock"
	"github.com/chittyapps/chittycharge/internal/config"
	"github.com/chittyapps/chittycharge/internal/domain"
)

// Processor is the payment-processor collaborator: it owns the hold lifecycle
// state machine; this service only validates and passes through.
type Processor interface {
	CreateHold(ctx context.Context, params ProcessorCreateParams) (domain.Hold, error)
	GetHold(ctx context.Context, id string) (domain.Hold, error)
	CaptureHold(ctx context.Context, id string, amountToCapture *int64, idempotencyKey string) (domain.Hold, error)
	CancelHold(ctx context.Context, id string) (domain.Hold, error)
}

// ProcessorCreateParams describes a manually-captured hold to open.
type ProcessorCreateParams struct {
	Amount        int64
	Currency      string
	Description   string
	CustomerEmail string
	Metadata      map[string]string
}

// MintResult is the outcome of minting a ChittyID. Placeholder marks a locally
// generated fallback id that must never be treated as authoritative downstream.
type MintResult struct {
	ChittyID    string
	Placeholder bool
}

// Minter is the ChittyID authority collaborator.
type Minter interface {
	Mint(ctx context.Context, entityType string, metadata map[string]any) MintResult
}

// HoldStore persists hold metadata and ChittyID mappings with a fixed expiry.
type HoldStore interface {
	PutHold(ctx context.Context, record domain.HoldRecord) error
	PutMapping(ctx context.Context, chittyID, holdID string) error
	GetMapping(ctx context.Context, chittyID string) (string, error)
}

// HoldService orchestrates the hold lifecycle against the processor, the
// ChittyID authority, and the key-value store.
type HoldService struct {
	processor Processor
	minter    Minter
	store     HoldStore
	guard     *CaptureGuard
	clock     clock.Clock
	currency  string
	minAmount int64
}

// NewHoldService wires the lifecycle service.
func NewHoldService(processor Processor, minter Minter, store HoldStore, guard *CaptureGuard, clk clock.Clock, opts ...HoldServiceOption) *HoldService {
	svc := &HoldService{
		processor: processor,
		minter:    minter,
		store:     store,
		guard:     guard,
		clock:     clk,
		currency:  "usd",
		minAmount: config.MinHoldAmount,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type HoldServiceOption func(*HoldService)

// WithCurrency overrides the default currency applied when a request omits one.
func WithCurrency(currency string) HoldServiceOption {
	return func(s *HoldService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// WithMinAmount overrides the minimum hold amount in minor units.
func WithMinAmount(minor int64) HoldServiceOption {
	return func(s *HoldService) {
		if minor > 0 {
			s.minAmount = minor
		}
	}
}

type CreateHoldInput struct {
	Amount        int64
	Currency      string
	CustomerEmail string
	PropertyID    string
	TenantID      string
	Description   string
	Metadata      map[string]any
}

type CreateHoldResult struct {
	Hold      domain.Hold
	ChittyID  MintResult
	Tier      domain.GuestTier
	TierLimit int64
}

// CreateHold validates the request, opens a manually-captured hold at the
// processor, mints a ChittyID for it, and persists the metadata record plus
// the ChittyID mapping. Writes are sequential best-effort: if a write fails
// after the processor hold is opened, the hold still exists at the processor
// and the error is surfaced without rollback.
func (s *HoldService) CreateHold(ctx context.Context, in CreateHoldInput) (CreateHoldResult, error) {
	if in.Amount == 0 || in.Description == "" {
		return CreateHoldResult{}, domain.NewValidation("Missing required fields: amount, description")
	}
	if in.Amount < s.minAmount {
		return CreateHoldResult{}, domain.NewValidation(fmt.Sprintf(
			"Amount must be at least $%g USD (%d cents)", float64(s.minAmount)/100, s.minAmount,
		))
	}

	tier := domain.ResolveTier(metadataString(in.Metadata, "guest_tier"))
	maxAmount := tier.Limit()
	if in.Amount > maxAmount {
		return CreateHoldResult{}, domain.NewValidationDetails(
			fmt.Sprintf("Amount exceeds limit for %s tier", tier),
			map[string]any{
				"details":      fmt.Sprintf("Maximum hold: %s. Contact support to upgrade tier.", tier.LimitDisplay()),
				"current_tier": string(tier),
				"max_amount":   maxAmount,
			},
		)
	}

	currency := in.Currency
	if currency == "" {
		currency = s.currency
	}

	metadata := normalizeMetadata(in.Metadata)
	metadata["property_id"] = in.PropertyID
	metadata["tenant_id"] = in.TenantID
	metadata["source"] = "chittycharge"
	metadata["service"] = "chittypay"

	hold, err := s.processor.CreateHold(ctx, ProcessorCreateParams{
		Amount:        in.Amount,
		Currency:      currency,
		Description:   in.Description,
		CustomerEmail: in.CustomerEmail,
		Metadata:      metadata,
	})
	if err != nil {
		return CreateHoldResult{}, err
	}

	minted := s.minter.Mint(ctx, "AUTH", map[string]any{
		"stripe_payment_intent_id": hold.ID,
		"amount":                   hold.Amount,
		"property_id":              in.PropertyID,
		"tenant_id":                in.TenantID,
		"source":                   "chittycharge",
	})

	record := domain.HoldRecord{
		ID:            hold.ID,
		Amount:        hold.Amount,
		Currency:      hold.Currency,
		Status:        hold.Status,
		CreatedAt:     hold.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		PropertyID:    in.PropertyID,
		TenantID:      in.TenantID,
		CustomerEmail: in.CustomerEmail,
	}
	if err := s.store.PutHold(ctx, record); err != nil {
		return CreateHoldResult{}, fmt.Errorf("store hold metadata: %w", err)
	}
	if err := s.store.PutMapping(ctx, minted.ChittyID, hold.ID); err != nil {
		return CreateHoldResult{}, fmt.Errorf("store chittyid mapping: %w", err)
	}

	return CreateHoldResult{
		Hold:      hold,
		ChittyID:  minted,
		Tier:      tier,
		TierLimit: maxAmount,
	}, nil
}

// GetHold reads the hold through to the processor; there is no local cache.
func (s *HoldService) GetHold(ctx context.Context, holdID string) (domain.Hold, error) {
	return s.processor.GetHold(ctx, holdID)
}

type CaptureInput struct {
	HoldID string
	// Amount is the partial amount to capture in minor units; nil (or zero)
	// captures the full authorized amount.
	Amount *int64
}

type CaptureResult struct {
	Hold         domain.Hold
	EstimatedFee int64
	FeeNote      string
}

// CaptureHold finalizes all or part of a hold. The capture guard rejects a
// conflicting concurrent attempt; the deterministic idempotency key makes an
// identical retry safe at the processor even if the guard's record is gone.
func (s *HoldService) CaptureHold(ctx context.Context, in CaptureInput) (CaptureResult, error) {
	amount := in.Amount
	if amount != nil && *amount == 0 {
		amount = nil
	}

	if err := s.guard.RegisterOrValidate(in.HoldID, amount); err != nil {
		return CaptureResult{}, err
	}

	key := IdempotencyKey("capture", in.HoldID, amount, s.clock.Now())
	hold, err := s.processor.CaptureHold(ctx, in.HoldID, amount, key)
	if err != nil {
		return CaptureResult{}, err
	}

	return CaptureResult{
		Hold:         hold,
		EstimatedFee: EstimateFee(hold.AmountReceived),
		FeeNote:      feeEstimateNote,
	}, nil
}

// CancelHold releases the hold at the processor.
func (s *HoldService) CancelHold(ctx context.Context, holdID string) (domain.Hold, error) {
	return s.processor.CancelHold(ctx, holdID)
}

// ResolveHoldID translates a ChittyID into the processor transaction id via
// the stored mapping. Plain processor ids pass through untouched.
func (s *HoldService) ResolveHoldID(ctx context.Context, id string) (string, error) {
	if !strings.HasPrefix(id, "CHITTY-") {
		return id, nil
	}
	mapped, err := s.store.GetMapping(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve chittyid: %w", err)
	}
	if mapped == "" {
		return "", domain.NewNotFound("Unknown ChittyID")
	}
	return mapped, nil
}

func metadataString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

// normalizeMetadata flattens arbitrary request metadata into the string-string
// record the processor accepts.
func normalizeMetadata(meta map[string]any) map[string]string {
	out := make(map[string]string, len(meta)+4)
	for key, value := range meta {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			out[key] = v
		case bool:
			out[key] = fmt.Sprintf("%t", v)
		case float64:
			out[key] = formatJSONNumber(v)
		default:
			if raw, err := json.Marshal(v); err == nil {
				out[key] = string(raw)
			}
		}
	}
	return out
}

func formatJSONNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
