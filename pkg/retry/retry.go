// Package retry provides a bounded retry executor with exponential backoff
// for fallible operations such as text-generation calls.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultMaxAttempts bounds a retried operation to three total attempts.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the delay before the second attempt; subsequent
	// delays double (1s, 2s, 4s, ...).
	DefaultBaseDelay = time.Second
)

// Policy describes the retry bounds for an operation. The zero value is
// usable and resolves to the package defaults.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func (p Policy) normalize() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	return p
}

// Permanent marks err as non-retryable; Do returns it without further attempts.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do invokes op up to p.MaxAttempts times, sleeping p.BaseDelay * 2^i between
// attempt i and i+1 (no jitter). It returns the first successful result, or
// the error from the final attempt once attempts are exhausted. Context
// cancellation aborts the wait between attempts and returns ctx.Err().
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	p = p.normalize()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = p.BaseDelay << 16
	b.MaxElapsedTime = 0

	var result T
	operation := func() error {
		r, err := op(ctx)
		if err != nil {
			return err
		}
		result = r
		return nil
	}

	err := backoff.Retry(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1)), ctx),
	)

	return result, err
}
