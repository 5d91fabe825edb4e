package zk

import (
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"golang.org/x/crypto/sha3"
)

// Domain separation tags, hashed in as the first element of every derivation.
const (
	domainNullifier  = "persona/nullifier/v1"
	domainCommitment = "persona/commitment/v1"
	domainIdentity   = "persona/identity/v1"
	domainStamps     = "persona/stamps/v1"
)

// MiMCHasher derives values with a MiMC sponge over the BN254 scalar field,
// the same field the proof circuit operates in. This is the production hasher.
type MiMCHasher struct{}

// NewMiMCHasher returns the MiMC-based hasher.
func NewMiMCHasher() *MiMCHasher {
	return &MiMCHasher{}
}

func (h *MiMCHasher) Nullifier(nonce uint64, appID string) string {
	return digest(domainNullifier, uintElement(nonce), bytesElement([]byte(appID)))
}

func (h *MiMCHasher) Commitment(score uint64, secret uint64) string {
	return digest(domainCommitment, uintElement(score), uintElement(secret))
}

func (h *MiMCHasher) IdentityCommitment(subjectID string, wallet string, timestamp int64) string {
	if timestamp < 0 {
		timestamp = 0
	}
	return digest(domainIdentity,
		bytesElement([]byte(subjectID)),
		bytesElement([]byte(wallet)),
		uintElement(uint64(timestamp)),
	)
}

func (h *MiMCHasher) StampsCommitment(stampIDs [MaxStampSlots]uint64) string {
	elems := make([]fr.Element, 0, MaxStampSlots)
	for _, id := range stampIDs {
		elems = append(elems, uintElement(id))
	}
	return digest(domainStamps, elems...)
}

// digest runs the MiMC sponge over a domain tag followed by the input elements
// and formats the result in field-element notation.
func digest(domain string, elems ...fr.Element) string {
	hasher := mimc.NewMiMC()
	tag := bytesElement([]byte(domain))
	b := tag.Bytes()
	_, _ = hasher.Write(b[:])
	for _, e := range elems {
		b := e.Bytes()
		_, _ = hasher.Write(b[:])
	}
	var out fr.Element
	out.SetBytes(hasher.Sum(nil))
	return fieldString(out.String())
}

// bytesElement maps arbitrary bytes into the scalar field. SHA3-256 spreads the
// input over the full field before reduction, so distinct inputs collide only
// with hash-collision probability.
func bytesElement(data []byte) fr.Element {
	sum := sha3.Sum256(data)
	var e fr.Element
	e.SetBytes(sum[:])
	return e
}

func uintElement(v uint64) fr.Element {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return bytesElement(buf[:])
}

var _ Hasher = (*MiMCHasher)(nil)
