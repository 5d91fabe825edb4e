package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	dErrors "persona/pkg/domain-errors"
)

// CallOptions bound the latency and retry budget of one logical agent call.
type CallOptions struct {
	// Timeout applies per attempt. The attempt races the operation against
	// this deadline; losing the race counts as a transient failure.
	Timeout time.Duration
	// MaxRetries is the total attempt budget, including the first attempt.
	MaxRetries int
	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration
}

// DefaultCallOptions is the standard agent-call policy.
var DefaultCallOptions = CallOptions{
	Timeout:    30 * time.Second,
	MaxRetries: 3,
	RetryDelay: 2 * time.Second,
}

func (o CallOptions) withDefaults() CallOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultCallOptions.Timeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultCallOptions.MaxRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultCallOptions.RetryDelay
	}
	return o
}

type outcome[T any] struct {
	value T
	err   error
}

// Call executes op under the resilience policy: a per-attempt timeout race,
// bounded retries with a fixed delay, and error classification. User
// rejections and other terminal errors propagate immediately without retry;
// everything else, including attempt timeouts, is treated as transient. After
// the retry budget is exhausted a single aggregated error names the attempt
// count. Call holds no state between invocations.
//
// A successful empty result is a success; only errors trigger retry.
func Call[T any](ctx context.Context, name string, opts CallOptions, op func(context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()

	var result T
	attempts := 0

	attempt := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		defer cancel()

		ch := make(chan outcome[T], 1)
		go func() {
			v, err := op(attemptCtx)
			ch <- outcome[T]{value: v, err: err}
		}()

		select {
		case <-attemptCtx.Done():
			if ctx.Err() != nil {
				// Caller cancellation is not retriable.
				return backoff.Permanent(ctx.Err())
			}
			return dErrors.New(dErrors.CodeTransient, name+" timed out")
		case o := <-ch:
			if o.err != nil {
				if classified := classify(o.err); classified != nil {
					return backoff.Permanent(classified)
				}
				return o.err
			}
			result = o.value
			return nil
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(opts.RetryDelay), uint64(opts.MaxRetries-1)),
		ctx,
	)
	if err := backoff.Retry(attempt, policy); err != nil {
		if dErrors.IsTerminal(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return result, err
		}
		return result, dErrors.Wrap(err, dErrors.CodeTransient,
			fmt.Sprintf("%s failed after %d attempts", name, attempts))
	}
	return result, nil
}

// classify returns a terminal domain error for failures that must not be
// retried, or nil when the failure is transient.
func classify(err error) error {
	if dErrors.IsTerminal(err) {
		return err
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "user rejected") || strings.Contains(msg, "user cancelled") {
		return dErrors.Wrap(err, dErrors.CodeUserRejected, "user declined the wallet prompt")
	}
	return nil
}
