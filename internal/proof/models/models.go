package models

import (
	"strings"

	dErrors "persona/pkg/domain-errors"
)

const (
	// DefaultProgram is the ledger program holding stamp records and the
	// prove_access transition.
	DefaultProgram = "persona_credentials.aleo"

	// FunctionProveAccess is the only transition third-party applications may
	// request through this surface.
	FunctionProveAccess = "prove_access"

	// MaxMinScore is the ceiling of the scoring formula.
	MaxMinScore = 100
)

// ProofRequest asks for proof that the holder's score meets a threshold.
// The requester supplies only its application identity and the threshold;
// private inputs come from the holder's wallet agent, never from the requester.
//
// AppID must be unique per requesting application. Reusing an AppID across
// unrelated applications links their nullifiers and breaks unlinkability.
type ProofRequest struct {
	Program  string `json:"program"`
	Function string `json:"function"`
	AppID    string `json:"appId"`
	MinScore uint64 `json:"minScore"`
	OnChain  bool   `json:"onChain"`
}

// Normalize implements httputil.Normalizable.
func (r *ProofRequest) Normalize() {
	r.Program = strings.TrimSpace(r.Program)
	if r.Program == "" {
		r.Program = DefaultProgram
	}
	r.Function = strings.TrimSpace(r.Function)
	r.AppID = strings.TrimSpace(r.AppID)
}

// Validate implements httputil.Validatable.
func (r *ProofRequest) Validate() error {
	if r.Function != FunctionProveAccess {
		return dErrors.New(dErrors.CodeValidation, "function must be "+FunctionProveAccess)
	}
	if r.AppID == "" {
		return dErrors.New(dErrors.CodeValidation, "appId is required")
	}
	if r.MinScore == 0 || r.MinScore > MaxMinScore {
		return dErrors.New(dErrors.CodeValidation, "minScore must be between 1 and 100")
	}
	return nil
}

// ProofResponse is the only outward-facing cryptographic contract of the
// system. It never contains the holder's identity, raw score, or stamp
// composition.
type ProofResponse struct {
	Proof         string `json:"proof,omitempty"`
	Nullifier     string `json:"nullifier,omitempty"`
	Valid         bool   `json:"valid"`
	TransactionID string `json:"transactionId,omitempty"`
}
