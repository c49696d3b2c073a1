// Package ratelimit paces outgoing requests.
//
// Interval enforces the fixed inter-request sleep used between tile fetches;
// TokenBucket supports requests-per-minute style limits. Both block through
// a context so interrupts are not held up by a pacing sleep.
package ratelimit
