// Package retry provides bounded retries with exponential backoff for
// browser navigations. Sitemap fetches go through a real browser session, so
// transient failures (renderer hiccups, slow redirects, flaky networks) are
// common enough to be worth one or two more attempts before the scanner
// writes the sitemap off.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Config controls retry behavior.
type Config struct {
	// MaxRetries is the number of attempts after the first (0 disables
	// retrying).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration `json:"initial_delay" yaml:"initial_delay"`

	// MaxDelay caps the backoff.
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay"`

	// Multiplier grows the delay between attempts.
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`

	// Jitter randomizes each delay by +/- this fraction.
	Jitter float64 `json:"jitter" yaml:"jitter"`
}

// DefaultConfig returns sensible defaults for navigation retries.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   2,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.2,
	}
}

// Retrier executes functions with bounded retries.
type Retrier struct {
	config Config
	rng    *rand.Rand
}

// New creates a retrier.
func New(config Config) *Retrier {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.Multiplier < 1 {
		config.Multiplier = DefaultConfig().Multiplier
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = DefaultConfig().InitialDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = DefaultConfig().MaxDelay
	}
	return &Retrier{
		config: config,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Do runs fn until it succeeds, the attempts are exhausted, or the context is
// cancelled. The last error is returned.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	delay := r.config.InitialDelay

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == r.config.MaxRetries {
			break
		}

		select {
		case <-time.After(r.withJitter(delay)):
		case <-ctx.Done():
			return ctx.Err()
		}

		delay = time.Duration(float64(delay) * r.config.Multiplier)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}
	return lastErr
}

// DoValue runs a value-returning function with the retrier's policy.
func DoValue[T any](ctx context.Context, r *Retrier, fn func(ctx context.Context) (T, error)) (T, error) {
	var value T
	err := r.Do(ctx, func(ctx context.Context) error {
		var err error
		value, err = fn(ctx)
		return err
	})
	return value, err
}

func (r *Retrier) withJitter(delay time.Duration) time.Duration {
	if r.config.Jitter <= 0 {
		return delay
	}
	spread := r.config.Jitter * float64(delay)
	return time.Duration(float64(delay) + (r.rng.Float64()*2-1)*spread)
}
