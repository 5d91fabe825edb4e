// Package zk derives the opaque commitment and nullifier values that bind a
// credential holder to an application without revealing identity or score.
//
// All derivations are pure: identical inputs always produce identical outputs,
// malformed inputs normalize to zero/empty rather than erroring, and outputs
// are opaque strings tagged with their numeric domain (a "field" suffix, the
// element notation used by the proof circuit's ledger).
package zk

import (
	"strconv"
)

// MaxStampSlots is the fixed arity of the proof circuit's stamp inputs.
const MaxStampSlots = 5

// Hasher derives commitments and nullifiers.
//
// Two implementations exist: ToyHasher reproduces the original placeholder
// arithmetic for compatibility, MiMCHasher is the secure construction and the
// production default. Both satisfy the same contract:
//
//   - determinism: same inputs, same output
//   - unlinkability: a fixed nonce yields distinct nullifiers for distinct app IDs
//   - hiding: outputs are not invertible without the secret/nonce
type Hasher interface {
	// Nullifier binds a secret nonce to an application identifier. For a fixed
	// nonce, nullifiers for distinct app IDs are distinct, preventing
	// cross-application linkage. Uniqueness-of-use is tracked by the external
	// ledger, not here.
	Nullifier(nonce uint64, appID string) string

	// Commitment binds a score to a secret without revealing either.
	Commitment(score uint64, secret uint64) string

	// IdentityCommitment binds a provider subject to a wallet address at a
	// point in time. Neither input is recoverable from the output.
	IdentityCommitment(subjectID string, wallet string, timestamp int64) string

	// StampsCommitment binds the fixed-arity stamp slot assignment consumed by
	// the proof circuit. Slot position is significant.
	StampsCommitment(stampIDs [MaxStampSlots]uint64) string
}

// fieldString formats a derived value in the ledger's field-element notation.
func fieldString(decimal string) string {
	return decimal + "field"
}

// numericID folds an identifier string into an integer input. Decimal
// identifiers map to their value; anything else folds to a positional byte sum
// so that distinct short identifiers stay distinct.
func numericID(s string) uint64 {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n
	}
	var h uint64
	for i := 0; i < len(s); i++ {
		h = h*131 + uint64(s[i])
	}
	return h
}
