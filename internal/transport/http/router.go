package http

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chittyapps/chittycharge/internal/app"
	"github.com/chittyapps/chittycharge/internal/clock"
	"github.com/chittyapps/chittycharge/internal/domain"
	"github.com/chittyapps/chittycharge/internal/ratelimit"
)

// HoldService is the full lifecycle surface the router dispatches to.
type HoldService interface {
	CreateHold(ctx context.Context, in app.CreateHoldInput) (app.CreateHoldResult, error)
	GetHold(ctx context.Context, id string) (domain.Hold, error)
	CaptureHold(ctx context.Context, in app.CaptureInput) (app.CaptureResult, error)
	CancelHold(ctx context.Context, id string) (domain.Hold, error)
	ResolveHoldID(ctx context.Context, id string) (string, error)
}

// RouterConfig carries the transport-level settings.
type RouterConfig struct {
	AuthToken          string
	AllowedOrigins     []string
	StripeConfigured   bool
	ChittyIDConfigured bool
}

// NewRouter assembles the request pipeline: request logging, CORS (with
// OPTIONS short-circuit), then routing; /api routes additionally authenticate
// and rate limit, in that order. /health and /webhook are public.
func NewRouter(
	cfg RouterConfig,
	svc HoldService,
	verifier WebhookVerifier,
	limiter *ratelimit.Limiter,
	clk clock.Clock,
	logger *log.Logger,
) http.Handler {
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Use(CORS(cfg.AllowedOrigins))

	r.Get("/health", handle(logger, HandleHealth(cfg.StripeConfigured, cfg.ChittyIDConfigured)))
	r.Post("/webhook", handle(logger, HandleWebhook(verifier, logger)))

	r.Route("/api", func(api chi.Router) {
		api.Use(Auth(cfg.AuthToken, logger))
		api.Use(RateLimit(limiter, logger))

		api.Post("/holds", handle(logger, HandleCreateHold(svc)))
		api.Get("/holds/{id}", handle(logger, HandleGetHold(svc)))
		api.Post("/holds/{id}/capture", handle(logger, HandleCaptureHold(svc, clk)))
		api.Post("/holds/{id}/cancel", handle(logger, HandleCancelHold(svc, clk)))
	})

	notFound := func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, logger, domain.NewNotFound("Not found"))
	}
	r.NotFound(notFound)
	// Method mismatches surface as not-found instead of 405.
	r.MethodNotAllowed(notFound)

	return r
}
