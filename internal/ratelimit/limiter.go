// Package ratelimit provides politeness throttling between sitemap fetches.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles sequential sitemap fetches against a single site: a
// token-bucket rate plus an optional fixed delay between requests.
type Limiter struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	delay       time.Duration
	lastRequest time.Time
}

// NewLimiter creates a limiter allowing requestsPerSecond with the given
// burst.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until the next request is allowed or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	delay := l.delay
	last := l.lastRequest
	l.mu.Unlock()

	if delay > 0 && !last.IsZero() {
		if elapsed := time.Since(last); elapsed < delay {
			select {
			case <-time.After(delay - elapsed):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	l.mu.Lock()
	l.lastRequest = time.Now()
	l.mu.Unlock()
	return nil
}

// SetDelay sets the minimum delay between consecutive fetches.
func (l *Limiter) SetDelay(delay time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.delay = delay
}

// SetRate updates the rate limit.
func (l *Limiter) SetRate(requestsPerSecond float64, burst int) {
	l.limiter.SetLimit(rate.Limit(requestsPerSecond))
	l.limiter.SetBurst(burst)
}

// Allow checks if a request is allowed without blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
