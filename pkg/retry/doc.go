// Package retry provides backoff policies for transient-failure handling.
//
// The transport retries rate-limited and failing requests with a linear
// backoff: the delay before attempt n+1 is BaseDelay * n. Wait performs the
// sleep and honors context cancellation so an interrupt is never stuck
// behind a backoff timer.
package retry
