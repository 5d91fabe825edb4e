// Package agent talks to the external credential-holding wallet agent. The
// agent owns the holder's private records and executes ledger transitions; this
// service never sees private inputs beyond what the agent chooses to return.
package agent

import (
	"context"
	"strconv"
	"strings"

	dErrors "persona/pkg/domain-errors"
)

// Capability names one operation an agent may support. Agents advertise their
// capability set; absent capabilities degrade to documented fallback paths
// rather than erroring at call time.
type Capability string

const (
	CapabilityTransaction      Capability = "transaction"
	CapabilityRecords          Capability = "records"
	CapabilityRecordPlaintexts Capability = "record_plaintexts"
	CapabilityDecrypt          Capability = "decrypt"
)

// CapabilitySet is the set of operations an agent supports.
type CapabilitySet map[Capability]bool

// Has reports whether the capability is present.
func (c CapabilitySet) Has(cap Capability) bool {
	return c[cap]
}

// Transaction is a ledger transition execution request. Broadcast false means
// the agent executes the transition locally (producing a proof) without
// submitting it to the ledger.
type Transaction struct {
	Program   string   `json:"program"`
	Function  string   `json:"function"`
	Inputs    []string `json:"inputs"`
	Fee       uint64   `json:"fee,omitempty"`
	Broadcast bool     `json:"broadcast"`
}

// TransactionResult is the outcome of a transition execution: the proof the
// execution produced and, when broadcast, the ledger transaction ID.
type TransactionResult struct {
	TransactionID string `json:"transactionId,omitempty"`
	Proof         string `json:"proof"`
}

// Record is a decrypted stamp record held by the agent.
type Record struct {
	Owner   string `json:"owner"`
	StampID uint64 `json:"stampId"`
	Points  uint64 `json:"points"`
	Issuer  string `json:"issuer"`
	Spent   bool   `json:"spent"`
}

// EncryptedRecord is a record ciphertext as stored on the ledger.
type EncryptedRecord struct {
	Owner      string `json:"owner"`
	Ciphertext string `json:"ciphertext"`
}

// Agent is the capability surface of the external wallet agent.
// All calls are subject to the resilience policy in Call.
type Agent interface {
	// RequestTransaction executes a ledger transition and returns its result.
	RequestTransaction(ctx context.Context, tx Transaction) (TransactionResult, error)
	// RequestRecords fetches the holder's encrypted records for a program.
	RequestRecords(ctx context.Context, programID string) ([]EncryptedRecord, error)
	// RequestRecordPlaintexts fetches the holder's records already decrypted.
	RequestRecordPlaintexts(ctx context.Context, programID string) ([]Record, error)
	// Decrypt decrypts a single record ciphertext.
	Decrypt(ctx context.Context, ciphertext string) (string, error)
	// Capabilities reports which operations this agent supports.
	Capabilities() CapabilitySet
}

// ParseRecord parses a ledger record plaintext of the form
// "owner: aleo1..., stamp_id: 42u64, points: 150u64, issuer: ..." into a Record.
// Unknown keys are ignored; missing numeric fields default to zero.
func ParseRecord(plaintext string) (Record, error) {
	if strings.TrimSpace(plaintext) == "" {
		return Record{}, dErrors.New(dErrors.CodeInvalidInput, "empty record plaintext")
	}
	rec := Record{}
	plaintext = strings.Trim(plaintext, "{} \n")
	for _, part := range strings.Split(plaintext, ",") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		switch key {
		case "owner":
			rec.Owner = value
		case "stamp_id":
			rec.StampID = parseLedgerUint(value)
		case "points":
			rec.Points = parseLedgerUint(value)
		case "issuer":
			rec.Issuer = value
		}
	}
	return rec, nil
}

// parseLedgerUint strips the ledger's numeric type suffix ("42u64.private") and
// parses the remaining digits. Malformed values fold to zero.
func parseLedgerUint(s string) uint64 {
	s = strings.TrimSuffix(s, ".private")
	s = strings.TrimSuffix(s, ".public")
	for _, suffix := range []string{"u8", "u16", "u32", "u64", "u128", "field"} {
		s = strings.TrimSuffix(s, suffix)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
