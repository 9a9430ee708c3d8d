package app

import (
	"sync"
	"time"

	"github.com/chittyapps/chittycharge/internal/clock"
	"github.com/chittyapps/chittycharge/internal/domain"
)

type captureAttempt struct {
	amount      *int64
	firstSeenAt time.Time
}

// CaptureGuard is a short-lived, process-local idempotency ledger for capture
// requests. Within the window, a repeated capture of the same hold must carry
// the same amount (nil meaning "capture the full amount" counts as its own
// distinct value). It is best-effort: exactly-once across processes is owned
// by the processor's idempotency-key mechanism, not by this guard.
type CaptureGuard struct {
	mu       sync.Mutex
	attempts map[string]captureAttempt
	window   time.Duration
	clock    clock.Clock
}

// NewCaptureGuard returns a guard whose recorded attempts expire after window.
func NewCaptureGuard(window time.Duration, clk clock.Clock) *CaptureGuard {
	return &CaptureGuard{
		attempts: make(map[string]captureAttempt),
		window:   window,
		clock:    clk,
	}
}

// RegisterOrValidate records a capture attempt for holdID. It returns a
// conflict error when an unexpired prior attempt carries a different amount;
// otherwise the attempt (new or identical retry) is recorded and allowed.
func (g *CaptureGuard) RegisterOrValidate(holdID string, amount *int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()

	if prior, ok := g.attempts[holdID]; ok {
		if now.Sub(prior.firstSeenAt) < g.window {
			if !sameAmount(prior.amount, amount) {
				return domain.NewConflict("Duplicate capture detected", map[string]any{
					"details": "This hold has already been captured or a capture is in progress with a different amount.",
				})
			}
		} else {
			delete(g.attempts, holdID)
		}
	}

	if _, ok := g.attempts[holdID]; !ok {
		g.attempts[holdID] = captureAttempt{amount: copyAmount(amount), firstSeenAt: now}
	}
	return nil
}

func sameAmount(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyAmount(a *int64) *int64 {
	if a == nil {
		return nil
	}
	v := *a
	return &v
}
