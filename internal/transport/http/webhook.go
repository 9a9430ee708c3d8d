package http

import (
	"io"
	"log"
	"net/http"

	"github.com/chittyapps/chittycharge/internal/domain"
)

const signatureHeader = "Stripe-Signature"

// WebhookVerifier checks a processor event's signature and parses it.
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, signature string) (domain.WebhookEvent, error)
}

// HandleWebhook returns the POST /webhook handler. Events are verified and
// logged; reconciliation beyond logging is out of scope.
func HandleWebhook(verifier WebhookVerifier, logger *log.Logger) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		signature := r.Header.Get(signatureHeader)
		if signature == "" {
			return domain.NewValidation("Missing stripe-signature header")
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			return domain.NewValidation("Invalid request body")
		}

		event, err := verifier.VerifyWebhook(payload, signature)
		if err != nil {
			return err
		}

		switch event.Type {
		case "payment_intent.amount_capturable_updated":
			logger.Printf("webhook: authorization hold authorized id=%s", event.ObjectID)
		case "charge.captured":
			logger.Printf("webhook: authorization hold captured id=%s", event.ObjectID)
		case "payment_intent.canceled":
			logger.Printf("webhook: authorization hold released id=%s", event.ObjectID)
		default:
			logger.Printf("webhook: unhandled event type=%s", event.Type)
		}

		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return nil
	}
}
