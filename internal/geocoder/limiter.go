package geocoder

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces successive provider calls by a minimum interval. The
// provider's rate limit is a cooperative contract, not an enforced one, so
// this is the only place that honors it.
type Limiter struct {
	mu       sync.Mutex
	next     time.Time
	interval time.Duration
}

func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Wait blocks until the caller may issue a provider call, or until the
// context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	wait := l.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	l.next = now.Add(wait + l.interval)
	l.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
