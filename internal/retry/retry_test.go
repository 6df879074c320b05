package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxRetries int) Config {
	return Config{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRetrier_SucceedsAfterFailures(t *testing.T) {
	r := New(fastConfig(3))
	attempts := 0

	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Do() error = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetrier_ExhaustsAttempts(t *testing.T) {
	r := New(fastConfig(2))
	attempts := 0
	wantErr := errors.New("permanent")

	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("Do() error = %v, want %v", err, wantErr)
	}
	// One initial attempt plus two retries.
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetrier_NoRetriesWhenDisabled(t *testing.T) {
	r := New(fastConfig(0))
	attempts := 0

	r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("fail")
	})

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetrier_NegativeMaxRetriesStillAttemptsOnce(t *testing.T) {
	r := New(fastConfig(-1))
	attempts := 0
	wantErr := errors.New("fail")

	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return wantErr
	})

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("Do() error = %v, want %v", err, wantErr)
	}
}

func TestRetrier_StopsOnContextCancel(t *testing.T) {
	r := New(Config{
		MaxRetries:   5,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := r.Do(ctx, func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("fail")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDoValue(t *testing.T) {
	r := New(fastConfig(2))
	attempts := 0

	got, err := DoValue(context.Background(), r, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 2 {
			return "", errors.New("transient")
		}
		return "page source", nil
	})

	if err != nil {
		t.Fatalf("DoValue() error = %v", err)
	}
	if got != "page source" {
		t.Errorf("DoValue() = %q, want %q", got, "page source")
	}
}
