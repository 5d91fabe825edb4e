// Package service manages the credential lifecycle: persisting verified
// results, listing and deleting provider connections, and expiry sweeps.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"persona/internal/credential/models"
	"persona/internal/credential/store"
	"persona/internal/events"
	sessionmodels "persona/internal/session/models"
	id "persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
)

// Option configures the credential service.
type Option func(*Service)

// WithLogger configures a logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service owns credential persistence and change notification.
type Service struct {
	store  store.Store
	bus    *events.Bus
	logger *slog.Logger
}

// New constructs the credential service.
func New(store store.Store, bus *events.Bus, opts ...Option) (*Service, error) {
	if store == nil || bus == nil {
		return nil, fmt.Errorf("store and bus are required")
	}
	s := &Service{
		store:  store,
		bus:    bus,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// SaveFromResult persists a verified session result as a credential,
// overwriting any previous credential for the provider. The session ID is
// recorded so a replayed save from the same session is a no-op.
func (s *Service) SaveFromResult(ctx context.Context, wallet id.WalletAddress, sessionID id.SessionID, result sessionmodels.VerificationResult) error {
	if wallet.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "wallet address is required")
	}

	if existing, err := s.store.Get(ctx, wallet, result.Provider); err == nil && existing.SessionID == sessionID {
		// Duplicate terminal notification for the same session.
		return nil
	}

	verifiedAt := result.VerifiedAt
	if verifiedAt.IsZero() {
		verifiedAt = time.Now().UTC()
	}
	credential := models.Credential{
		Provider:   result.Provider,
		Verified:   true,
		Score:      result.Score,
		MaxScore:   result.MaxScore,
		Criteria:   result.Criteria,
		VerifiedAt: verifiedAt,
		ExpiresAt:  verifiedAt.Add(models.ValidityWindow),
		Commitment: result.Commitment,
		Status:     models.StatusConnected,
		SessionID:  sessionID,
	}
	if err := s.store.Save(ctx, wallet, credential); err != nil {
		return err
	}

	s.bus.PublishCredentialUpdated(events.CredentialUpdated{
		Wallet:   wallet.String(),
		Provider: result.Provider.String(),
	})
	s.logger.InfoContext(ctx, "credential saved",
		"provider", result.Provider,
		"score", result.Score,
	)
	return nil
}

// List returns all of a wallet's credentials with up-to-date expiry status.
func (s *Service) List(ctx context.Context, wallet id.WalletAddress) ([]models.Credential, error) {
	creds, err := s.store.List(ctx, wallet)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range creds {
		if creds[i].Status == models.StatusConnected && creds[i].Expired(now) {
			creds[i].Status = models.StatusExpired
		}
	}
	return creds, nil
}

// Delete removes a provider connection at the holder's request.
func (s *Service) Delete(ctx context.Context, wallet id.WalletAddress, provider id.Provider) error {
	if err := s.store.Delete(ctx, wallet, provider); err != nil {
		return err
	}
	s.bus.PublishCredentialUpdated(events.CredentialUpdated{
		Wallet:   wallet.String(),
		Provider: provider.String(),
		Deleted:  true,
	})
	s.logger.InfoContext(ctx, "credential deleted",
		"provider", provider,
	)
	return nil
}

// MarkExpired sweeps the store for credentials past their validity window.
// Every flipped credential is announced on the bus so cached scores for the
// affected wallets are recomputed.
func (s *Service) MarkExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.store.MarkExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, ref := range expired {
		s.bus.PublishCredentialUpdated(events.CredentialUpdated{
			Wallet:   ref.Wallet.String(),
			Provider: ref.Provider.String(),
		})
	}
	return len(expired), nil
}
