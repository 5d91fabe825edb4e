// Package task provides a cancellable fixed-interval polling abstraction so
// interval and timeout bookkeeping is not duplicated at every polling call site.
package task

import (
	"context"
	"sync"
	"time"
)

// Result reports how a poll loop ended.
type Result int

const (
	// ResultTerminal means the poll function reported completion.
	ResultTerminal Result = iota
	// ResultTimeout means the overall deadline elapsed before completion.
	ResultTimeout
	// ResultCancelled means the loop was cancelled by its handle or context.
	ResultCancelled
)

// PollFunc is invoked once per tick. Returning stop=true ends the loop with
// ResultTerminal. Returning a non-nil error ends the loop and surfaces the error.
type PollFunc func(ctx context.Context) (stop bool, err error)

// Handle controls a running poll loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	cancelled bool
	result    Result
	err       error
}

// Cancel stops the loop. It clears the interval timer and the timeout guard;
// work already performed by earlier ticks is unaffected.
func (h *Handle) Cancel() {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()
	h.cancel()
}

// IsCancelled reports whether Cancel has been called.
func (h *Handle) IsCancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// Wait blocks until the loop finishes and returns its outcome.
func (h *Handle) Wait() (Result, error) {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result, h.err
}

// Start launches a poll loop in a new goroutine and returns its handle.
func Start(ctx context.Context, interval, timeout time.Duration, fn PollFunc) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(h.done)
		result, err := run(ctx, interval, timeout, fn)
		h.mu.Lock()
		h.result = result
		h.err = err
		h.mu.Unlock()
	}()
	return h
}

// Run executes a poll loop synchronously until the poll function reports
// completion, the timeout elapses, or the context is cancelled.
func Run(ctx context.Context, interval, timeout time.Duration, fn PollFunc) (Result, error) {
	return run(ctx, interval, timeout, fn)
}

func run(ctx context.Context, interval, timeout time.Duration, fn PollFunc) (Result, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return ResultCancelled, ctx.Err()
		case <-deadline.C:
			return ResultTimeout, nil
		case <-ticker.C:
			stop, err := fn(ctx)
			if err != nil {
				return ResultTerminal, err
			}
			if stop {
				return ResultTerminal, nil
			}
		}
	}
}
