package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/chittyapps/chittycharge/internal/app"
	"github.com/chittyapps/chittycharge/internal/chittyid"
	"github.com/chittyapps/chittycharge/internal/clock"
	"github.com/chittyapps/chittycharge/internal/config"
	"github.com/chittyapps/chittycharge/internal/ratelimit"
	"github.com/chittyapps/chittycharge/internal/storage/redisstore"
	stripeclient "github.com/chittyapps/chittycharge/internal/stripe"
	transporthttp "github.com/chittyapps/chittycharge/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()
	config.LoadEnvFile(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.StripeWebhookSecret == "" {
		logger.Printf("WARN: STRIPE_WEBHOOK_SECRET not set, webhook verification will reject all events")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(startupCtx).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	clk := clock.NewSystem()
	store := redisstore.New(rdb, config.HoldTTL)
	processor := stripeclient.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	minter := chittyid.New(cfg.ChittyIDURL, cfg.ChittyIDToken, clk, logger)
	guard := app.NewCaptureGuard(config.CaptureAttemptWindow, clk)
	holdSvc := app.NewHoldService(processor, minter, store, guard, clk,
		app.WithCurrency(cfg.Currency),
	)
	limiter := ratelimit.New(config.RateLimitRequests, config.RateLimitWindow, clk)

	handler := transporthttp.NewRouter(
		transporthttp.RouterConfig{
			AuthToken:          cfg.ChittyIDToken,
			AllowedOrigins:     cfg.AllowedOrigins,
			StripeConfigured:   cfg.StripeSecretKey != "",
			ChittyIDConfigured: cfg.ChittyIDToken != "",
		},
		holdSvc,
		processor,
		limiter,
		clk,
		logger,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("chittycharge listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
