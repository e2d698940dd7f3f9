package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_Success(t *testing.T) {
	err := Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestDo_RetryThenSuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, WithMaxAttempts(3), WithBackoff(Fixed(time.Millisecond)))

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_Exhausted_ReturnsLastError(t *testing.T) {
	boom := errors.New("persistent error")
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return boom
	}, WithMaxAttempts(3), WithBackoff(Fixed(time.Millisecond)))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
}

func TestDo_ConditionStopsImmediately(t *testing.T) {
	fatal := errors.New("validation failure")
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return fatal
	}, WithMaxAttempts(3), WithRetryIf(func(err error) bool {
		return !errors.Is(err, fatal)
	}))

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, attempts)
}

func TestDo_LinearBackoffDelays(t *testing.T) {
	base := 10 * time.Millisecond
	var waits []time.Duration
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	},
		WithMaxAttempts(3),
		WithBackoff(Linear(base)),
		WithOnWait(func(attempt int, wait time.Duration) {
			waits = append(waits, wait)
		}),
	)

	require.NoError(t, err)
	require.Len(t, waits, 2)
	assert.Equal(t, 1*base, waits[0])
	assert.Equal(t, 2*base, waits[1])
}

func TestDo_NoWaitAfterFinalAttempt(t *testing.T) {
	var waits int
	_ = Do(context.Background(), func(ctx context.Context) error {
		return errors.New("always")
	},
		WithMaxAttempts(3),
		WithBackoff(Fixed(time.Millisecond)),
		WithOnWait(func(int, time.Duration) { waits++ }),
	)
	assert.Equal(t, 2, waits)
}

func TestDo_ContextCanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := Do(ctx, func(ctx context.Context) error {
		attempts++
		return errors.New("temporary error")
	}, WithMaxAttempts(5), WithBackoff(Fixed(time.Hour)))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}
