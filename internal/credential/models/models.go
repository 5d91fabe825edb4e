package models

import (
	"time"

	id "persona/pkg/domain"
)

// Status captures the lifecycle of a stored credential.
type Status string

const (
	// StatusConnected means the provider is verified and contributing to the score.
	StatusConnected Status = "connected"
	// StatusDisconnected means the holder removed the provider connection.
	StatusDisconnected Status = "disconnected"
	// StatusExpired means the validity window elapsed; the credential is
	// excluded from scoring but not necessarily purged.
	StatusExpired Status = "expired"
)

// ValidityWindow is the fixed credential lifetime from its verification time.
const ValidityWindow = 90 * 24 * time.Hour

// Criterion is one scored condition a provider evaluated during verification.
type Criterion struct {
	Condition   string `json:"condition"`
	Points      uint64 `json:"points"`
	Description string `json:"description"`
	Achieved    bool   `json:"achieved"`
}

// Credential is a provider-scoped record asserting a verified attribute and its
// score contribution. One per provider per wallet; overwritten on
// re-verification, deleted explicitly by the holder.
type Credential struct {
	Provider   id.Provider  `json:"provider"`
	Verified   bool         `json:"verified"`
	Score      uint64       `json:"score"`
	MaxScore   uint64       `json:"maxScore"`
	Criteria   []Criterion  `json:"criteria"`
	VerifiedAt time.Time    `json:"verifiedAt"`
	ExpiresAt  time.Time    `json:"expiryDate"`
	Commitment string       `json:"commitment"`
	Status     Status       `json:"status"`
	SessionID  id.SessionID `json:"-"`
}

// Expired reports whether the validity window has elapsed.
// A zero ExpiresAt means the credential never expires.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Valid reports whether the credential counts toward the total score.
func (c Credential) Valid(now time.Time) bool {
	return c.Verified && !c.Expired(now) && c.Status != StatusExpired && c.Status != StatusDisconnected
}

// DaysRemaining returns whole days until expiry, zero once expired or for
// credentials without an expiry.
func (c Credential) DaysRemaining(now time.Time) int {
	if c.ExpiresAt.IsZero() || c.Expired(now) {
		return 0
	}
	return int(c.ExpiresAt.Sub(now).Hours() / 24)
}
