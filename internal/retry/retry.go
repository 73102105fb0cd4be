// Package retry implements the jittered exponential backoff policy used by
// the embedder HTTP clients and by the orchestrator around embedding calls.
// Vector store calls do not go through it and are not retried.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Policy configures retry behavior. DefaultPolicy returns the defaults from
// the concurrency & resource model: 3 attempts, 100ms base, doubling,
// +/-25% jitter. The zero value is usable but makes a single attempt.
type Policy struct {
	MaxAttempts int
	Base        time.Duration
	Jitter      float64
}

func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Base: 100 * time.Millisecond, Jitter: 0.25}
}

// Do runs fn, making at most MaxAttempts attempts in total, with exponential
// backoff between attempts. It stops early if ctx is cancelled. shouldRetry
// lets the caller distinguish transient upstream errors from permanent ones;
// a nil shouldRetry retries every error.
func Do(ctx context.Context, p Policy, shouldRetry func(error) bool, fn func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			d := backoff(p, attempt)
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if shouldRetry != nil && !shouldRetry(lastErr) {
			return lastErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}

func backoff(p Policy, attempt int) time.Duration {
	base := p.Base
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	d := base << uint(attempt-1)
	if p.Jitter > 0 {
		delta := float64(d) * p.Jitter
		d = time.Duration(float64(d) - delta + rand.Float64()*2*delta)
	}
	return d
}
