package http

import (
	"net/http"

	"github.com/chittyapps/chittycharge/internal/config"
)

type healthResponse struct {
	Status            string `json:"status"`
	Service           string `json:"service"`
	Version           string `json:"version"`
	StripeConnected   bool   `json:"stripe_connected"`
	ChittyIDConnected bool   `json:"chittyid_connected"`
}

// HandleHealth reports liveness and whether collaborator credentials are
// configured.
func HandleHealth(stripeConfigured, chittyIDConfigured bool) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:            "healthy",
			Service:           config.ServiceName,
			Version:           config.ServiceVersion,
			StripeConnected:   stripeConfigured,
			ChittyIDConnected: chittyIDConfigured,
		})
		return nil
	}
}
