package handler

import (
	"sync"

	"persona/internal/events"
	id "persona/pkg/domain"
)

// scoreCache memoizes score responses per wallet between credential changes.
// Entries are dropped whenever the events bus reports a save, delete, or
// expiry flip for the wallet, so a cached total can never outlive the
// credentials behind it.
type scoreCache struct {
	mu     sync.RWMutex
	scores map[id.WalletAddress]ScoreResponse
}

func newScoreCache() *scoreCache {
	return &scoreCache{scores: make(map[id.WalletAddress]ScoreResponse)}
}

func (c *scoreCache) get(wallet id.WalletAddress) (ScoreResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.scores[wallet]
	return resp, ok
}

func (c *scoreCache) set(wallet id.WalletAddress, resp ScoreResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores[wallet] = resp
}

func (c *scoreCache) invalidate(ev events.CredentialUpdated) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scores, id.WalletAddress(ev.Wallet))
}
