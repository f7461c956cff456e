package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRetryWithBackoff_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(),
		BackoffConfig{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
		zaptest.NewLogger(t), "gateway", func() error {
			attempts++
			if attempts < 3 {
				return errors.New("connection refused")
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_GivesUp(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(),
		BackoffConfig{MaxAttempts: 3, InitialDelay: time.Millisecond},
		zaptest.NewLogger(t), "gateway", func() error {
			attempts++
			return errors.New("unavailable")
		})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "gateway failed after 3 attempts")
	assert.Contains(t, err.Error(), "unavailable")
}

func TestRetryWithBackoff_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := RetryWithBackoff(ctx,
		BackoffConfig{MaxAttempts: 10, InitialDelay: time.Hour},
		zaptest.NewLogger(t), "gateway", func() error {
			attempts++
			cancel()
			return errors.New("timeout")
		})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}
