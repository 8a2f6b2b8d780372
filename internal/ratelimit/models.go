// Package ratelimit throttles HTTP clients per endpoint class. Windows are
// tracked in memory for single-node deployments or in Redis when several
// replicas share a quota.
package ratelimit

import "time"

// Class groups endpoints that share a quota.
type Class string

const (
	ClassRead  Class = "read"
	ClassWrite Class = "write"
)

// Limit is a request budget over a window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, only set when not allowed
}
