package port

import "context"

// RateLimiter is an injected counter store so handlers never keep module-level
// mutable state and tests can reset it deterministically.
type RateLimiter interface {
	// Allow records one hit for key and reports whether it is still within
	// the configured window budget.
	Allow(ctx context.Context, key string) (bool, error)
}
