// Package ratelimit implements a fixed-window request counter keyed by caller
// identity. Windows are fixed, not sliding: a burst straddling a window
// boundary can see up to twice the limit, which is an accepted approximation.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/chittyapps/chittycharge/internal/clock"
	"github.com/chittyapps/chittycharge/internal/domain"
)

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a process-local fixed-window rate limiter. State does not survive
// a restart and is not shared across instances.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	clock   clock.Clock
}

// New returns a limiter allowing limit requests per key per window.
func New(limit int, window time.Duration, clk clock.Clock) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		clock:   clk,
	}
}

// Check records one request for key. It returns a rate-limited domain error,
// carrying the time until the window resets, once the key has exhausted the
// current window. Expired entries are swept opportunistically on each call.
func (l *Limiter) Check(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	e, ok := l.entries[key]
	if ok && now.Before(e.resetAt) {
		if e.count >= l.limit {
			retryAfter := e.resetAt.Sub(now)
			return domain.NewRateLimited(
				fmt.Sprintf("Rate limit exceeded. Maximum %d requests per minute. Please try again later.", l.limit),
				retryAfter,
			)
		}
		e.count++
	} else {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(l.window)}
	}

	l.sweepLocked(now)
	return nil
}

func (l *Limiter) sweepLocked(now time.Time) {
	for key, e := range l.entries {
		if !now.Before(e.resetAt) {
			delete(l.entries, key)
		}
	}
}
