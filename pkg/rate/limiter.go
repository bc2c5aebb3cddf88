package rate

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter limits operations partitioned by a key, such as a remote host.
type Limiter interface {
	// Allow reports whether an operation for key may happen now.
	Allow(key string) bool

	// Wait blocks until an operation for key is permitted or ctx is done.
	Wait(ctx context.Context, key string) error
}

type localLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLocalLimiter returns an in memory limiter allowing limit operations per
// second for each key. A burst below one is raised to one.
func NewLocalLimiter(limit float64, burst int) Limiter {
	if burst < 1 {
		burst = 1
	}
	return &localLimiter{
		limit:    rate.Limit(limit),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *localLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

func (l *localLimiter) Wait(ctx context.Context, key string) error {
	return l.get(key).Wait(ctx)
}

func (l *localLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

type noLimiter struct{}

// NoLimiter returns a Limiter that never limits.
func NoLimiter() Limiter {
	return noLimiter{}
}

func (noLimiter) Allow(string) bool {
	return true
}

func (noLimiter) Wait(ctx context.Context, _ string) error {
	return ctx.Err()
}
