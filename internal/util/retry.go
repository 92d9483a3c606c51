// ABOUTME: Retry utilities for API calls with exponential backoff
// ABOUTME: Used by the embedding client for consistent retry behavior
package util

import (
	"context"
	"math/rand/v2"
	"time"
)

// maxBackoff caps a single wait regardless of attempt count.
const maxBackoff = 30 * time.Second

// Backoff returns exponential backoff with jitter.
// Base delay is doubled each attempt, with random jitter up to 25%.
func Backoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in bit shift
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > maxBackoff || backoff <= 0 {
		backoff = maxBackoff
	}
	// Jitter: -25% to +25% using auto-seeded math/rand/v2
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}

// SleepBackoff blocks for the attempt's backoff duration or until ctx is
// canceled, whichever comes first. Returns ctx.Err() on cancellation.
func SleepBackoff(ctx context.Context, baseDelay time.Duration, attempt int) error {
	d := Backoff(baseDelay, attempt)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
