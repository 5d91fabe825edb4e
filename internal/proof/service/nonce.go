package service

import (
	"context"
	"sync"

	"persona/pkg/secrets"
)

// NonceSource yields the holder's secret nonce for nullifier derivation.
// The nonce must be stable per holder: the same holder proving to the same
// application twice must derive the same nullifier, or the ledger's
// uniqueness check cannot catch replays.
type NonceSource interface {
	Nonce(ctx context.Context, ownerRef string) (uint64, error)
}

// MemoryNonceSource generates one random nonce per owner and retains it for
// the process lifetime. A durable deployment would persist nonces alongside
// the holder's wallet material; the agent is the long-term custodian.
type MemoryNonceSource struct {
	mu     sync.Mutex
	nonces map[string]uint64
}

// NewMemoryNonceSource creates an empty nonce source.
func NewMemoryNonceSource() *MemoryNonceSource {
	return &MemoryNonceSource{nonces: make(map[string]uint64)}
}

// Nonce returns the owner's nonce, generating it on first use.
func (m *MemoryNonceSource) Nonce(_ context.Context, ownerRef string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nonces[ownerRef]; ok {
		return n, nil
	}
	n, err := secrets.GenerateNonce()
	if err != nil {
		return 0, err
	}
	m.nonces[ownerRef] = n
	return n, nil
}

var _ NonceSource = (*MemoryNonceSource)(nil)
