// Package store persists per-wallet credential records. The store is an opaque
// key-value surface: last write wins, no compare-and-swap. Concurrent writers
// for the same wallet may overwrite each other; callers accept this.
package store

import (
	"context"
	"sync"
	"time"

	"persona/internal/credential/models"
	id "persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
	psync "persona/pkg/platform/sync"
)

// ExpiredRef identifies a credential flipped to expired by a sweep, so callers
// can fan out change notifications.
type ExpiredRef struct {
	Wallet   id.WalletAddress
	Provider id.Provider
}

// Store is the credential persistence contract.
type Store interface {
	Save(ctx context.Context, wallet id.WalletAddress, credential models.Credential) error
	Get(ctx context.Context, wallet id.WalletAddress, provider id.Provider) (*models.Credential, error)
	List(ctx context.Context, wallet id.WalletAddress) ([]models.Credential, error)
	Delete(ctx context.Context, wallet id.WalletAddress, provider id.Provider) error
	MarkExpired(ctx context.Context, now time.Time) ([]ExpiredRef, error)
}

// InMemoryStore keeps credentials in process memory, one record set per wallet.
type InMemoryStore struct {
	mu      sync.RWMutex
	wallets map[id.WalletAddress]map[id.Provider]models.Credential
	writeMu *psync.ShardedMutex
}

// New creates an empty in-memory credential store.
func New() *InMemoryStore {
	return &InMemoryStore{
		wallets: make(map[id.WalletAddress]map[id.Provider]models.Credential),
		writeMu: psync.NewShardedMutex(),
	}
}

// Save stores a credential, overwriting any existing one for the same
// provider. This is the re-verification path as well as the initial save.
func (s *InMemoryStore) Save(_ context.Context, wallet id.WalletAddress, credential models.Credential) error {
	s.writeMu.Lock(wallet.String())
	defer s.writeMu.Unlock(wallet.String())

	s.mu.Lock()
	defer s.mu.Unlock()
	creds, ok := s.wallets[wallet]
	if !ok {
		creds = make(map[id.Provider]models.Credential)
		s.wallets[wallet] = creds
	}
	creds[credential.Provider] = credential
	return nil
}

// Get returns one provider's credential for a wallet.
func (s *InMemoryStore) Get(_ context.Context, wallet id.WalletAddress, provider id.Provider) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.wallets[wallet][provider]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "credential not found")
	}
	return &cred, nil
}

// List returns all credentials for a wallet, including expired ones.
func (s *InMemoryStore) List(_ context.Context, wallet id.WalletAddress) ([]models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds := s.wallets[wallet]
	out := make([]models.Credential, 0, len(creds))
	for _, c := range creds {
		out = append(out, c)
	}
	return out, nil
}

// Delete removes one provider's credential. Missing credentials are not_found.
func (s *InMemoryStore) Delete(_ context.Context, wallet id.WalletAddress, provider id.Provider) error {
	s.writeMu.Lock(wallet.String())
	defer s.writeMu.Unlock(wallet.String())

	s.mu.Lock()
	defer s.mu.Unlock()
	creds, ok := s.wallets[wallet]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "credential not found")
	}
	if _, ok := creds[provider]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "credential not found")
	}
	delete(creds, provider)
	return nil
}

// MarkExpired flips credentials past their validity window to expired status
// and returns which ones changed. Expired credentials stay listed; they are
// only excluded from scoring.
func (s *InMemoryStore) MarkExpired(_ context.Context, now time.Time) ([]ExpiredRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed []ExpiredRef
	for wallet, creds := range s.wallets {
		for provider, c := range creds {
			if c.Status != models.StatusExpired && c.Expired(now) {
				c.Status = models.StatusExpired
				creds[provider] = c
				changed = append(changed, ExpiredRef{Wallet: wallet, Provider: provider})
			}
		}
	}
	return changed, nil
}

var _ Store = (*InMemoryStore)(nil)
