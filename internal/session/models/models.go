package models

import (
	"time"

	credmodels "persona/internal/credential/models"
	id "persona/pkg/domain"
)

// Status is the lifecycle state of one verification session.
// Transitions are monotonic: in_progress may move to verified or failed, and
// terminal states never regress.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusVerified   Status = "verified"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status ends the session.
func (s Status) Terminal() bool {
	return s == StatusVerified || s == StatusFailed
}

// VerificationResult is what a provider reports when a session verifies.
// SubjectID is the provider's opaque subject identifier, never the wallet
// address.
type VerificationResult struct {
	Provider   id.Provider            `json:"provider"`
	SubjectID  id.SubjectID           `json:"subjectId"`
	Score      uint64                 `json:"score"`
	MaxScore   uint64                 `json:"maxScore"`
	Criteria   []credmodels.Criterion `json:"criteria"`
	Commitment string                 `json:"commitment"`
	VerifiedAt time.Time              `json:"verifiedAt"`
}

// VerificationSession tracks one in-flight provider verification attempt.
// Sessions are transient: retained until consumed or until the overall polling
// timeout elapses.
type VerificationSession struct {
	ID        id.SessionID        `json:"sessionId"`
	Provider  id.Provider         `json:"provider"`
	Wallet    id.WalletAddress    `json:"-"`
	Status    Status              `json:"status"`
	Result    *VerificationResult `json:"result,omitempty"`
	Device    string              `json:"device,omitempty"`
	DeviceID  string              `json:"deviceId,omitempty"`
	StartedAt time.Time           `json:"startedAt"`
}

// PollOutcome is one observed poll response applied to a session.
type PollOutcome struct {
	Status Status
	Result *VerificationResult
}
