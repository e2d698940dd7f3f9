// Package retry provides a small retry combinator with configurable backoff,
// a retry condition, and an injectable clock so waits can be observed in tests.
package retry

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Func is a retryable operation. It must respect the provided context.
type Func func(ctx context.Context) error

// Condition reports whether an error is worth another attempt.
// Returning false stops immediately and surfaces the error as-is.
type Condition func(error) bool

// Backoff returns the wait before the next attempt. attempt starts at 1
// (the wait after the first failure).
type Backoff func(attempt int) time.Duration

// Fixed waits the same interval between every attempt.
func Fixed(interval time.Duration) Backoff {
	return func(int) time.Duration { return interval }
}

// Linear waits attempt × base, so delays grow as 1×, 2×, 3× the base unit.
func Linear(base time.Duration) Backoff {
	return func(attempt int) time.Duration { return base * time.Duration(attempt) }
}

// Config defines retry behavior. It is immutable during execution.
type Config struct {
	maxAttempts int
	backoff     Backoff
	retryIf     Condition
	onWait      func(attempt int, wait time.Duration)
	clock       clockwork.Clock
}

func defaultConfig() *Config {
	return &Config{
		maxAttempts: 3,
		backoff:     Linear(time.Second),
		retryIf:     func(error) bool { return true },
		clock:       clockwork.NewRealClock(),
	}
}

// Option configures retry behavior.
type Option func(*Config)

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the backoff strategy.
func WithBackoff(b Backoff) Option {
	return func(c *Config) {
		if b != nil {
			c.backoff = b
		}
	}
}

// WithRetryIf sets the retry condition.
func WithRetryIf(cond Condition) Option {
	return func(c *Config) {
		if cond != nil {
			c.retryIf = cond
		}
	}
}

// WithOnWait registers an observer called before each backoff wait.
func WithOnWait(fn func(attempt int, wait time.Duration)) Option {
	return func(c *Config) { c.onWait = fn }
}

// WithClock substitutes the wall clock, for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// Do executes fn until it succeeds, the condition rejects the error, the
// attempts are exhausted, or the context is done. The error returned after
// exhaustion is the last error fn produced, unwrapped.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !cfg.retryIf(err) {
			return err
		}
		if attempt == cfg.maxAttempts {
			break
		}

		wait := cfg.backoff(attempt)
		if cfg.onWait != nil {
			cfg.onWait(attempt, wait)
		}
		if wait > 0 {
			select {
			case <-cfg.clock.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}
