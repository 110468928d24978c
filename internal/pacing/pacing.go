// Package pacing spaces out calls to external APIs during the photo pass.
package pacing

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDelay is the pause between photo lookups.
const DefaultDelay = 100 * time.Millisecond

// DefaultBackoff is used when a rate-limit response carries no retry hint.
const DefaultBackoff = 60 * time.Second

// Pacer is consulted after every external lookup.
type Pacer interface {
	Wait(ctx context.Context) error
}

// RateLimitRecorder is implemented by pacers that back off after the API
// reports a rate-limit error.
type RateLimitRecorder interface {
	RecordRateLimit(retryAfter time.Duration)
}

// FixedDelay sleeps a constant interval.
type FixedDelay struct {
	Delay time.Duration
}

// Wait sleeps for Delay or until ctx is done.
func (f FixedDelay) Wait(ctx context.Context) error {
	if f.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(f.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TokenBucket paces calls with a token bucket and honours rate-limit backoff.
type TokenBucket struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewTokenBucket allows perSecond sustained calls with the given burst.
func NewTokenBucket(perSecond float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait blocks until any backoff has elapsed and a token is available.
func (t *TokenBucket) Wait(ctx context.Context) error {
	t.mu.Lock()
	retryAt := t.retryAt
	t.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return t.limiter.Wait(ctx)
}

// RecordRateLimit delays the next Wait by retryAfter.
func (t *TokenBucket) RecordRateLimit(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = DefaultBackoff
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.retryAt = time.Now().Add(retryAfter)
}
