package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"

	dErrors "persona/pkg/domain-errors"
)

// Generate creates a cryptographically secure random secret.
// Returns a base64-encoded string suitable for use as API keys, signing keys, etc.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate secret")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateNonce creates a cryptographically secure numeric nonce.
// Nullifier derivation consumes nonces as field-element inputs, so the nonce is
// returned as a uint64 rather than an encoded string.
func GenerateNonce() (uint64, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "could not generate nonce")
	}
	return binary.BigEndian.Uint64(buf), nil
}
