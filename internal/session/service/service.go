// Package service implements the verification session machine: it opens
// provider verification flows and polls their status until terminal.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"persona/internal/session/device"
	"persona/internal/session/metrics"
	"persona/internal/session/models"
	"persona/internal/task"
	id "persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
)

// Polling cadences. OAuth redirects involve a human round-trip through the
// provider, signature flows complete as soon as the wallet signs.
const (
	OAuthPollInterval     = 1000 * time.Millisecond
	SignaturePollInterval = 500 * time.Millisecond
	DefaultAwaitTimeout   = 60 * time.Second
)

// StatusClient performs a single provider status fetch.
type StatusClient interface {
	Status(ctx context.Context, sessionID id.SessionID, provider id.Provider) (*models.VerificationSession, error)
}

// Store persists in-flight sessions and enforces monotonic terminal transitions.
type Store interface {
	Save(ctx context.Context, session models.VerificationSession) error
	Get(ctx context.Context, sessionID id.SessionID) (*models.VerificationSession, error)
	ApplyOutcome(ctx context.Context, sessionID id.SessionID, outcome models.PollOutcome) (applied bool, err error)
}

// CredentialSink receives verified results for persistence. The sink is called
// at most once per session; the store's monotonic transition is the guard.
type CredentialSink interface {
	SaveFromResult(ctx context.Context, wallet id.WalletAddress, sessionID id.SessionID, result models.VerificationResult) error
}

// AwaitOptions tune one AwaitTerminal call. Zero values take the provider's
// default cadence and the standard 60 second ceiling.
type AwaitOptions struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Option configures the session service.
type Option func(*Service)

// WithLogger configures a logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics configures session metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAwaitTimeout overrides the default polling ceiling applied when an
// AwaitTerminal call does not set one.
func WithAwaitTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.awaitTimeout = d
		}
	}
}

// Service is the verification session machine.
type Service struct {
	store        Store
	status       StatusClient
	sink         CredentialSink
	logger       *slog.Logger
	metrics      *metrics.Metrics
	awaitTimeout time.Duration
}

// New constructs the session machine with its required dependencies.
func New(store Store, status StatusClient, sink CredentialSink, opts ...Option) (*Service, error) {
	if store == nil || status == nil || sink == nil {
		return nil, fmt.Errorf("store, status client, and credential sink are required")
	}
	s := &Service{
		store:        store,
		status:       status,
		sink:         sink,
		logger:       slog.Default(),
		awaitTimeout: DefaultAwaitTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Start opens a provider verification flow and returns the session ID used for
// polling. The provider-side flow (OAuth redirect, wallet signature prompt) is
// driven by the client; Start only establishes the tracking session.
func (s *Service) Start(ctx context.Context, provider id.Provider, wallet id.WalletAddress, userAgent string) (id.SessionID, error) {
	if provider.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "provider is required")
	}
	if wallet.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "wallet address is required")
	}

	session := models.VerificationSession{
		ID:        id.NewSessionID(),
		Provider:  provider,
		Wallet:    wallet,
		Status:    models.StatusInProgress,
		Device:    device.Summarize(userAgent),
		DeviceID:  device.Fingerprint(userAgent),
		StartedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.SessionsStarted.WithLabelValues(provider.String()).Inc()
	}
	s.logger.InfoContext(ctx, "verification session started",
		"session_id", session.ID,
		"provider", provider,
	)
	return session.ID, nil
}

// Poll performs a single status fetch. A transport failure yields (nil, nil):
// the status is not yet available, which is not a provider failure. Only
// invalid input surfaces as an error.
func (s *Service) Poll(ctx context.Context, sessionID id.SessionID, provider id.Provider) (*models.VerificationSession, error) {
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "session ID is required")
	}

	session, err := s.status.Status(ctx, sessionID, provider)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PollTransportErrors.Inc()
		}
		s.logger.DebugContext(ctx, "status poll failed, will retry on next tick",
			"session_id", sessionID,
			"error", err,
		)
		return nil, nil
	}
	return session, nil
}

// AwaitTerminal polls on a fixed interval until the session reaches a terminal
// status or the timeout ceiling elapses. Timeout surfaces as session_timeout,
// distinct from a provider-reported failure (session_failed). Cancelling ctx
// stops the timers without touching server-side session state.
//
// On verified, the result is handed to the credential sink exactly once per
// session; duplicate terminal notifications are absorbed by the store's
// monotonic transition.
func (s *Service) AwaitTerminal(ctx context.Context, sessionID id.SessionID, provider id.Provider, opts AwaitOptions) (*models.VerificationResult, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = OAuthPollInterval
		if provider.SignatureBased() {
			interval = SignaturePollInterval
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.awaitTimeout
	}

	start := time.Now()
	var terminal *models.VerificationSession

	outcome, err := task.Run(ctx, interval, timeout, func(ctx context.Context) (bool, error) {
		session, err := s.Poll(ctx, sessionID, provider)
		if err != nil {
			return false, err
		}
		if session == nil || !session.Status.Terminal() {
			return false, nil
		}
		terminal = session
		return true, nil
	})
	if s.metrics != nil {
		s.metrics.AwaitDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	}
	switch outcome {
	case task.ResultCancelled:
		return nil, err
	case task.ResultTimeout:
		if s.metrics != nil {
			s.metrics.SessionsTimedOut.WithLabelValues(provider.String()).Inc()
		}
		return nil, dErrors.New(dErrors.CodeSessionTimeout,
			fmt.Sprintf("verification did not complete within %s", timeout))
	}
	if err != nil {
		return nil, err
	}

	if terminal.Status == models.StatusFailed {
		if s.metrics != nil {
			s.metrics.SessionsFailed.WithLabelValues(provider.String()).Inc()
		}
		return nil, dErrors.New(dErrors.CodeSessionFailed, "provider reported verification failure")
	}

	if err := s.applyVerified(ctx, sessionID, terminal); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.SessionsVerified.WithLabelValues(provider.String()).Inc()
	}
	return terminal.Result, nil
}

// Complete applies a provider-reported terminal outcome to a session. Provider
// callback handlers use it; the status endpoint then serves the new state to
// pollers. Verified outcomes flow to the credential sink through the same
// exactly-once guard as AwaitTerminal.
func (s *Service) Complete(ctx context.Context, sessionID id.SessionID, outcome models.PollOutcome) error {
	if !outcome.Status.Terminal() {
		return dErrors.New(dErrors.CodeInvalidInput, "outcome status must be terminal")
	}
	if outcome.Status == models.StatusVerified {
		session := &models.VerificationSession{Status: outcome.Status, Result: outcome.Result}
		return s.applyVerifiedOutcome(ctx, sessionID, session, outcome)
	}
	_, err := s.store.ApplyOutcome(ctx, sessionID, outcome)
	return err
}

// Session returns the stored session state, for the status endpoint.
func (s *Service) Session(ctx context.Context, sessionID id.SessionID) (*models.VerificationSession, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *Service) applyVerified(ctx context.Context, sessionID id.SessionID, terminal *models.VerificationSession) error {
	outcome := models.PollOutcome{Status: terminal.Status, Result: terminal.Result}
	return s.applyVerifiedOutcome(ctx, sessionID, terminal, outcome)
}

func (s *Service) applyVerifiedOutcome(ctx context.Context, sessionID id.SessionID, terminal *models.VerificationSession, outcome models.PollOutcome) error {
	applied, err := s.store.ApplyOutcome(ctx, sessionID, outcome)
	if err != nil {
		return err
	}
	if !applied {
		// Late duplicate terminal notification; side effects already ran.
		return nil
	}
	if terminal.Result == nil {
		s.logger.WarnContext(ctx, "verified session carried no result",
			"session_id", sessionID,
		)
		return nil
	}

	stored, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.sink.SaveFromResult(ctx, stored.Wallet, sessionID, *terminal.Result); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not persist verification result")
	}
	s.logger.InfoContext(ctx, "verification result persisted",
		"session_id", sessionID,
		"provider", terminal.Result.Provider,
	)
	return nil
}
