// Package expiry periodically flips credentials past their validity window to
// expired status so scoring excludes them without purging the records.
package expiry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CredentialExpirer exposes the expiry sweep of the credential layer.
type CredentialExpirer interface {
	MarkExpired(ctx context.Context, now time.Time) (int, error)
}

// SessionJanitor exposes retention cleanup for stale verification sessions.
type SessionJanitor interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Worker runs the periodic sweeps.
type Worker struct {
	credentials CredentialExpirer
	sessions    SessionJanitor
	interval    time.Duration
	logger      *slog.Logger
}

// Option configures the worker.
type Option func(*Worker)

// WithInterval overrides the sweep interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// WithLogger overrides the logger used for sweep errors.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New constructs a Worker with required dependencies and options applied.
func New(credentials CredentialExpirer, sessions SessionJanitor, opts ...Option) (*Worker, error) {
	if credentials == nil || sessions == nil {
		return nil, fmt.Errorf("credential expirer and session janitor are required")
	}
	w := &Worker{
		credentials: credentials,
		sessions:    sessions,
		interval:    time.Hour,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Start runs sweeps periodically until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep runs one pass over both stores.
func (w *Worker) sweep(ctx context.Context) {
	now := time.Now().UTC()

	expired, err := w.credentials.MarkExpired(ctx, now)
	if err != nil {
		w.logger.ErrorContext(ctx, "credential expiry sweep failed", "error", err)
	} else if expired > 0 {
		w.logger.InfoContext(ctx, "credentials expired", "count", expired)
	}

	deleted, err := w.sessions.DeleteExpired(ctx, now)
	if err != nil {
		w.logger.ErrorContext(ctx, "session cleanup failed", "error", err)
	} else if deleted > 0 {
		w.logger.InfoContext(ctx, "stale sessions removed", "count", deleted)
	}
}
