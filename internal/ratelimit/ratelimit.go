package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jobsieve/jobsieve/internal/ai"
)

// Limiter enforces a minimum delay between consecutive calls sharing a key.
// The pipeline uses one key per call purpose (extract, rates, estimate) so a
// burst of extractions cannot starve the advisory calls.
type Limiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time
	minDelay time.Duration
}

// NewLimiter creates a limiter that enforces minDelay between consecutive
// calls with the same key.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last call for the key.
// Returns an error if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	l.mu.Lock()
	last, ok := l.lastCall[key]
	now := time.Now()

	if !ok {
		l.lastCall[key] = now
		l.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= l.minDelay {
		l.lastCall[key] = now
		l.mu.Unlock()
		return nil
	}

	remaining := l.minDelay - elapsed
	l.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-time.After(remaining):
	}

	l.mu.Lock()
	l.lastCall[key] = time.Now()
	l.mu.Unlock()

	return nil
}

// Completer matches the completion client the decorator wraps.
type Completer interface {
	Complete(ctx context.Context, req ai.Request) (*ai.Completion, error)
}

// LimitedCompleter is a decorator that enforces the minimum call spacing
// before delegating to the wrapped completion client.
type LimitedCompleter struct {
	inner   Completer
	limiter *Limiter
	key     string
}

// NewLimitedCompleter wraps a completion client with call spacing. Clients
// that should share one budget must share the same limiter instance.
func NewLimitedCompleter(inner Completer, limiter *Limiter, key string) *LimitedCompleter {
	return &LimitedCompleter{
		inner:   inner,
		limiter: limiter,
		key:     key,
	}
}

// Complete waits for the limiter to allow a call, then delegates.
func (c *LimitedCompleter) Complete(ctx context.Context, req ai.Request) (*ai.Completion, error) {
	if err := c.limiter.Wait(ctx, c.key); err != nil {
		return nil, err
	}
	return c.inner.Complete(ctx, req)
}
