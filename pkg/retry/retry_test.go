package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoWithResult_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), RetryConfig{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(time.Millisecond),
	}, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestDoWithResult_ExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("still broken")
	_, err := DoWithResult(context.Background(), RetryConfig{
		MaxAttempts: 2,
		Backoff:     LinearBackoff(time.Millisecond),
	}, func() (int, error) {
		calls++
		return 0, wantErr
	})
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 2, calls)
}

func TestDoWithResult_StopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("bad request")
	calls := 0
	_, err := DoWithResult(context.Background(), RetryConfig{
		MaxAttempts: 5,
		Backoff:     LinearBackoff(time.Millisecond),
		ShouldRetry: func(err error) bool { return !errors.Is(err, permanent) },
	}, func() (int, error) {
		calls++
		return 0, permanent
	})
	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, RetryConfig{MaxAttempts: 3}, func() error {
		t.Fatal("fn should not run with cancelled context")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
