package retry

import (
	"context"
	"time"
)

// BackoffStrategy defines the interface for retry delay policies
type BackoffStrategy interface {
	// NextDelay returns the delay to sleep before the given attempt retries.
	// Delays are monotonically non-decreasing with the attempt number.
	NextDelay(attempt int) time.Duration
}

// LinearBackoff grows the delay by BaseDelay for every attempt made.
// There is deliberately no jitter and no ceiling: attempt counts are small
// and the delay is a short politeness pause, not an outage shield.
type LinearBackoff struct {
	// BaseDelay is multiplied by the attempt number
	BaseDelay time.Duration
}

// NextDelay returns BaseDelay * attempt
func (lb *LinearBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return lb.BaseDelay * time.Duration(attempt)
}

// ConstantBackoff returns the same delay for every attempt
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns the constant delay
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Wait sleeps for the given delay or until the context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
