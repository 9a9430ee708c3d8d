package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chittyapps/chittycharge/internal/app"
	"github.com/chittyapps/chittycharge/internal/clock"
	"github.com/chittyapps/chittycharge/internal/domain"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// holdResolver translates a ChittyID path parameter into a processor id.
type holdResolver interface {
	ResolveHoldID(ctx context.Context, id string) (string, error)
}

// HoldCreator is the minimal interface needed to create a hold.
type HoldCreator interface {
	CreateHold(ctx context.Context, in app.CreateHoldInput) (app.CreateHoldResult, error)
}

// HoldGetter is the minimal interface needed to read a hold.
type HoldGetter interface {
	holdResolver
	GetHold(ctx context.Context, id string) (domain.Hold, error)
}

// HoldCapturer is the minimal interface needed to capture a hold.
type HoldCapturer interface {
	holdResolver
	CaptureHold(ctx context.Context, in app.CaptureInput) (app.CaptureResult, error)
}

// HoldCanceler is the minimal interface needed to cancel a hold.
type HoldCanceler interface {
	holdResolver
	CancelHold(ctx context.Context, id string) (domain.Hold, error)
}

type createHoldRequest struct {
	Amount        int64          `json:"amount"`
	Currency      string         `json:"currency"`
	CustomerEmail string         `json:"customer_email"`
	PropertyID    string         `json:"property_id"`
	TenantID      string         `json:"tenant_id"`
	Description   string         `json:"description"`
	Metadata      map[string]any `json:"metadata"`
}

type createHoldResponse struct {
	ID                  string `json:"id"`
	ChittyID            string `json:"chitty_id"`
	ChittyIDPlaceholder bool   `json:"chitty_id_placeholder,omitempty"`
	ClientSecret        string `json:"client_secret,omitempty"`
	Status              string `json:"status"`
	Amount              int64  `json:"amount"`
	AmountCapturable    int64  `json:"amount_capturable"`
	Currency            string `json:"currency"`
	CreatedAt           string `json:"created_at"`
	Tier                string `json:"tier"`
	TierLimit           int64  `json:"tier_limit"`
}

// HandleCreateHold returns the POST /api/holds handler.
func HandleCreateHold(svc HoldCreator) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req createHoldRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}

		res, err := svc.CreateHold(r.Context(), app.CreateHoldInput{
			Amount:        req.Amount,
			Currency:      req.Currency,
			CustomerEmail: req.CustomerEmail,
			PropertyID:    req.PropertyID,
			TenantID:      req.TenantID,
			Description:   req.Description,
			Metadata:      req.Metadata,
		})
		if err != nil {
			return err
		}

		writeJSON(w, http.StatusCreated, createHoldResponse{
			ID:                  res.Hold.ID,
			ChittyID:            res.ChittyID.ChittyID,
			ChittyIDPlaceholder: res.ChittyID.Placeholder,
			ClientSecret:        res.Hold.ClientSecret,
			Status:              res.Hold.Status,
			Amount:              res.Hold.Amount,
			AmountCapturable:    res.Hold.AmountCapturable,
			Currency:            res.Hold.Currency,
			CreatedAt:           res.Hold.CreatedAt.Format(timeLayout),
			Tier:                string(res.Tier),
			TierLimit:           res.TierLimit,
		})
		return nil
	}
}

type holdStatusResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	Amount           int64  `json:"amount"`
	AmountCapturable int64  `json:"amount_capturable"`
	AmountReceived   int64  `json:"amount_received"`
	Currency         string `json:"currency"`
	CreatedAt        string `json:"created_at"`
}

// HandleGetHold returns the GET /api/holds/{id} handler.
func HandleGetHold(svc HoldGetter) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		holdID, err := svc.ResolveHoldID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return err
		}

		hold, err := svc.GetHold(r.Context(), holdID)
		if err != nil {
			return err
		}

		writeJSON(w, http.StatusOK, holdStatusResponse{
			ID:               hold.ID,
			Status:           hold.Status,
			Amount:           hold.Amount,
			AmountCapturable: hold.AmountCapturable,
			AmountReceived:   hold.AmountReceived,
			Currency:         hold.Currency,
			CreatedAt:        hold.CreatedAt.Format(timeLayout),
		})
		return nil
	}
}

type captureHoldRequest struct {
	AmountToCapture *int64 `json:"amount_to_capture"`
}

type captureHoldResponse struct {
	ID                     string `json:"id"`
	Status                 string `json:"status"`
	AmountCaptured         int64  `json:"amount_captured"`
	AmountRemaining        int64  `json:"amount_remaining"`
	EstimatedProcessingFee int64  `json:"estimated_processing_fee"`
	ProcessingFeeNote      string `json:"processing_fee_note"`
	CapturedAt             string `json:"captured_at"`
}

// HandleCaptureHold returns the POST /api/holds/{id}/capture handler.
func HandleCaptureHold(svc HoldCapturer, clk clock.Clock) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		holdID, err := svc.ResolveHoldID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return err
		}

		var req captureHoldRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}

		res, err := svc.CaptureHold(r.Context(), app.CaptureInput{
			HoldID: holdID,
			Amount: req.AmountToCapture,
		})
		if err != nil {
			return err
		}

		writeJSON(w, http.StatusOK, captureHoldResponse{
			ID:                     res.Hold.ID,
			Status:                 res.Hold.Status,
			AmountCaptured:         res.Hold.AmountReceived,
			AmountRemaining:        res.Hold.AmountRemaining(),
			EstimatedProcessingFee: res.EstimatedFee,
			ProcessingFeeNote:      res.FeeNote,
			CapturedAt:             clk.Now().Format(timeLayout),
		})
		return nil
	}
}

type cancelHoldResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CanceledAt string `json:"canceled_at"`
}

// HandleCancelHold returns the POST /api/holds/{id}/cancel handler.
func HandleCancelHold(svc HoldCanceler, clk clock.Clock) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		holdID, err := svc.ResolveHoldID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return err
		}

		hold, err := svc.CancelHold(r.Context(), holdID)
		if err != nil {
			return err
		}

		writeJSON(w, http.StatusOK, cancelHoldResponse{
			ID:         hold.ID,
			Status:     hold.Status,
			CanceledAt: clk.Now().Format(timeLayout),
		})
		return nil
	}
}

// decodeJSON reads a JSON body, treating an empty body as the zero request so
// capture without a body means full capture.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return domain.NewValidation("Invalid request body")
}
