// Package stripe implements the payment-processor collaborator on the Stripe
// API, using PaymentIntents with manual capture as authorization holds.
package stripe

import (
	"context"
	"errors"
	"time"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/chittyapps/chittycharge/internal/app"
	"github.com/chittyapps/chittycharge/internal/domain"
)

// Client wraps the Stripe API client behind the app.Processor interface.
type Client struct {
	api           *client.API
	webhookSecret string
}

// New returns a processor client authenticated with the given secret key.
func New(secretKey, webhookSecret string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api, webhookSecret: webhookSecret}
}

// CreateHold opens a PaymentIntent with manual capture for the given amount.
func (c *Client) CreateHold(ctx context.Context, params app.ProcessorCreateParams) (domain.Hold, error) {
	piParams := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(params.Amount),
		Currency:      stripe.String(params.Currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Description:   stripe.String(params.Description),
	}
	if params.CustomerEmail != "" {
		piParams.ReceiptEmail = stripe.String(params.CustomerEmail)
	}
	for key, value := range params.Metadata {
		piParams.AddMetadata(key, value)
	}

	pi, err := c.api.PaymentIntents.New(piParams)
	if err != nil {
		return domain.Hold{}, mapError(err)
	}
	return toHold(pi), nil
}

// GetHold retrieves the PaymentIntent backing a hold.
func (c *Client) GetHold(ctx context.Context, id string) (domain.Hold, error) {
	pi, err := c.api.PaymentIntents.Get(id, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return domain.Hold{}, mapError(err)
	}
	return toHold(pi), nil
}

// CaptureHold captures the hold, up to amountToCapture when set, under the
// supplied idempotency key.
func (c *Client) CaptureHold(ctx context.Context, id string, amountToCapture *int64, idempotencyKey string) (domain.Hold, error) {
	captureParams := &stripe.PaymentIntentCaptureParams{
		Params: stripe.Params{Context: ctx},
	}
	if amountToCapture != nil {
		captureParams.AmountToCapture = stripe.Int64(*amountToCapture)
	}
	captureParams.SetIdempotencyKey(idempotencyKey)

	pi, err := c.api.PaymentIntents.Capture(id, captureParams)
	if err != nil {
		return domain.Hold{}, mapError(err)
	}
	return toHold(pi), nil
}

// CancelHold releases the hold.
func (c *Client) CancelHold(ctx context.Context, id string) (domain.Hold, error) {
	pi, err := c.api.PaymentIntents.Cancel(id, &stripe.PaymentIntentCancelParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return domain.Hold{}, mapError(err)
	}
	return toHold(pi), nil
}

// VerifyWebhook checks the event signature and returns the parsed event.
func (c *Client) VerifyWebhook(payload []byte, signature string) (domain.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return domain.WebhookEvent{}, domain.NewValidation("Invalid webhook signature")
	}

	objectID := ""
	if id, ok := event.Data.Object["id"].(string); ok {
		objectID = id
	}
	return domain.WebhookEvent{Type: string(event.Type), ObjectID: objectID}, nil
}

func toHold(pi *stripe.PaymentIntent) domain.Hold {
	return domain.Hold{
		ID:               pi.ID,
		Status:           string(pi.Status),
		Amount:           pi.Amount,
		AmountCapturable: pi.AmountCapturable,
		AmountReceived:   pi.AmountReceived,
		Currency:         string(pi.Currency),
		ClientSecret:     pi.ClientSecret,
		CreatedAt:        time.Unix(pi.Created, 0).UTC(),
	}
}

// mapError surfaces missing PaymentIntents as the domain's not-found error so
// stale or mistyped hold ids do not read as server failures.
func mapError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
		return domain.NewNotFound("No such hold")
	}
	return err
}
