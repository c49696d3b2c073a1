package ratelimit

import (
	"context"
	"sync"
	"time"

	"adtfetch/pkg/retry"
)

// Limiter paces requests against the remote API
type Limiter interface {
	// Wait blocks until the next request may proceed or the context is cancelled
	Wait(ctx context.Context) error
}

// Interval enforces a fixed minimum gap between consecutive requests.
// A zero gap disables pacing. This is the politeness throttle between
// tile fetches.
type Interval struct {
	gap  time.Duration
	mu   sync.Mutex
	last time.Time
}

// NewInterval creates a limiter with a fixed gap between requests
func NewInterval(gap time.Duration) *Interval {
	return &Interval{gap: gap}
}

// Wait sleeps until the configured gap since the previous request has passed
func (i *Interval) Wait(ctx context.Context) error {
	if i.gap <= 0 {
		return ctx.Err()
	}

	i.mu.Lock()
	now := time.Now()
	var sleep time.Duration
	if !i.last.IsZero() {
		if elapsed := now.Sub(i.last); elapsed < i.gap {
			sleep = i.gap - elapsed
		}
	}
	i.last = now.Add(sleep)
	i.mu.Unlock()

	return retry.Wait(ctx, sleep)
}

// TokenBucket allows bursts up to capacity, refilled every refill period.
// Useful when the API's published limit is requests-per-minute rather than
// a fixed inter-request gap.
type TokenBucket struct {
	capacity     int
	tokens       int
	refillPeriod time.Duration
	lastRefill   time.Time
	mu           sync.Mutex
}

// NewTokenBucket creates a token bucket limiter
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		tb.mu.Lock()
		tb.refill()
		if tb.tokens > 0 {
			tb.tokens--
			tb.mu.Unlock()
			return ctx.Err()
		}
		pause := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if pause <= 0 {
			pause = 10 * time.Millisecond
		}
		if err := retry.Wait(ctx, pause); err != nil {
			return err
		}
	}
}

// refill restores the bucket once a full refill period has elapsed
func (tb *TokenBucket) refill() {
	now := time.Now()
	if now.Sub(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}
