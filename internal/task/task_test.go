package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StopsWhenPollReportsCompletion(t *testing.T) {
	calls := 0
	result, err := Run(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, ResultTerminal, result)
	assert.Equal(t, 3, calls)
}

func TestRun_TimesOut(t *testing.T) {
	result, err := Run(context.Background(), time.Millisecond, 20*time.Millisecond, func(context.Context) (bool, error) {
		return false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, ResultTimeout, result)
}

func TestRun_SurfacesPollError(t *testing.T) {
	pollErr := errors.New("boom")
	result, err := Run(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
		return false, pollErr
	})

	assert.Equal(t, ResultTerminal, result)
	assert.ErrorIs(t, err, pollErr)
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Run(ctx, time.Millisecond, time.Second, func(context.Context) (bool, error) {
		return false, nil
	})

	assert.Equal(t, ResultCancelled, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStart_HandleCancelStopsLoop(t *testing.T) {
	started := make(chan struct{})
	var once bool

	h := Start(context.Background(), time.Millisecond, time.Minute, func(context.Context) (bool, error) {
		if !once {
			once = true
			close(started)
		}
		return false, nil
	})

	<-started
	h.Cancel()

	result, err := h.Wait()
	assert.Equal(t, ResultCancelled, result)
	assert.Error(t, err)
	assert.True(t, h.IsCancelled())
}

func TestStart_WaitReturnsTerminalOutcome(t *testing.T) {
	h := Start(context.Background(), time.Millisecond, time.Second, func(context.Context) (bool, error) {
		return true, nil
	})

	result, err := h.Wait()
	require.NoError(t, err)
	assert.Equal(t, ResultTerminal, result)
	assert.False(t, h.IsCancelled())
}
