package zk

import (
	"math/big"
)

// Placeholder arithmetic carried over from the original circuit prototypes.
// It is NOT cryptographically secure: small moduli, invertible in practice.
// Kept only so values derived by older clients remain reproducible; production
// wiring uses MiMCHasher.
const (
	toyPrime1 = 31
	toyPrime2 = 37
	toyMixer  = 1543
)

// ToyHasher derives values with the legacy placeholder formulas.
type ToyHasher struct{}

// NewToyHasher returns the legacy arithmetic hasher.
func NewToyHasher() *ToyHasher {
	return &ToyHasher{}
}

// Nullifier computes (n*p1 + a*p2)*(n+a) + n*a.
func (h *ToyHasher) Nullifier(nonce uint64, appID string) string {
	n := new(big.Int).SetUint64(nonce)
	a := new(big.Int).SetUint64(numericID(appID))

	left := new(big.Int).Mul(n, big.NewInt(toyPrime1))
	left.Add(left, new(big.Int).Mul(a, big.NewInt(toyPrime2)))
	sum := new(big.Int).Add(n, a)
	out := new(big.Int).Mul(left, sum)
	out.Add(out, new(big.Int).Mul(n, a))

	return fieldString(out.String())
}

// Commitment computes score*secret + score^2.
func (h *ToyHasher) Commitment(score uint64, secret uint64) string {
	s := new(big.Int).SetUint64(score)
	out := new(big.Int).Mul(s, new(big.Int).SetUint64(secret))
	out.Add(out, new(big.Int).Mul(s, s))
	return fieldString(out.String())
}

// IdentityCommitment folds subject, wallet, and timestamp through the same
// commitment arithmetic, with the wallet acting as the secret input.
func (h *ToyHasher) IdentityCommitment(subjectID string, wallet string, timestamp int64) string {
	subject := new(big.Int).SetUint64(numericID(subjectID))
	if timestamp < 0 {
		timestamp = 0
	}
	subject.Add(subject, new(big.Int).SetInt64(timestamp))
	out := new(big.Int).Mul(subject, new(big.Int).SetUint64(numericID(wallet)))
	out.Add(out, new(big.Int).Mul(subject, subject))
	return fieldString(out.String())
}

// StampsCommitment computes sum(stampId_i^2 * (i+1) * mixer).
func (h *ToyHasher) StampsCommitment(stampIDs [MaxStampSlots]uint64) string {
	out := new(big.Int)
	for i, id := range stampIDs {
		term := new(big.Int).SetUint64(id)
		term.Mul(term, term)
		term.Mul(term, big.NewInt(int64(i+1)))
		term.Mul(term, big.NewInt(toyMixer))
		out.Add(out, term)
	}
	return fieldString(out.String())
}

var _ Hasher = (*ToyHasher)(nil)
