package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "persona/pkg/domain-errors"
)

var fastOpts = CallOptions{
	Timeout:    200 * time.Millisecond,
	MaxRetries: 3,
	RetryDelay: 5 * time.Millisecond,
}

func TestCall_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Call(context.Background(), "op", fastOpts, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestCall_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	result, err := Call(context.Background(), "op", fastOpts, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("connection refused")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestCall_ExhaustsRetryBudget(t *testing.T) {
	calls := 0
	_, err := Call(context.Background(), "fetch records", fastOpts, func(context.Context) (string, error) {
		calls++
		return "", errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTransient))
	assert.Contains(t, err.Error(), "fetch records failed after 3 attempts")
}

func TestCall_UserRejectionNotRetried(t *testing.T) {
	calls := 0
	_, err := Call(context.Background(), "op", fastOpts, func(context.Context) (string, error) {
		calls++
		return "", errors.New("user rejected the request")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUserRejected))
}

func TestCall_TerminalDomainErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := Call(context.Background(), "op", fastOpts, func(context.Context) (string, error) {
		calls++
		return "", dErrors.New(dErrors.CodeReplayRejected, "nullifier already used")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeReplayRejected))
}

func TestCall_AttemptTimeoutIsTransient(t *testing.T) {
	opts := CallOptions{
		Timeout:    20 * time.Millisecond,
		MaxRetries: 2,
		RetryDelay: 5 * time.Millisecond,
	}
	calls := 0
	_, err := Call(context.Background(), "slow op", opts, func(ctx context.Context) (string, error) {
		calls++
		<-ctx.Done()
		return "", ctx.Err()
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTransient))
}

func TestCall_CallerCancellationStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Call(ctx, "op", fastOpts, func(context.Context) (string, error) {
		return "", errors.New("should not matter")
	})

	require.Error(t, err)
	assert.False(t, dErrors.HasCode(err, dErrors.CodeTransient))
}

func TestCall_EmptyResultIsSuccess(t *testing.T) {
	result, err := Call(context.Background(), "op", fastOpts, func(context.Context) ([]Record, error) {
		return []Record{}, nil
	})

	require.NoError(t, err)
	assert.Empty(t, result)
}
