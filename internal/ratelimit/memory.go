package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/devmart/media-pipeline-go/internal/port"
)

// MemoryLimiter is the single-instance fallback when Redis is not configured.
// It is always injected, never package-level, so tests can build a fresh one.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string]*windowCounter
	max    int64
	window time.Duration
	now    func() time.Time
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

// compile-time check: *MemoryLimiter must satisfy port.RateLimiter
var _ port.RateLimiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter(max int64, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   make(map[string]*windowCounter),
		max:    max,
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.hits[key]
	if !ok || now.After(c.resetAt) {
		l.hits[key] = &windowCounter{count: 1, resetAt: now.Add(l.window)}
		return true, nil
	}
	c.count++
	return c.count <= l.max, nil
}
