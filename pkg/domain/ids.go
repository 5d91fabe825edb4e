// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	dErrors "persona/pkg/domain-errors"
)

// SessionID is the prefixed identifier for verification sessions (e.g., "sess_xxxx").
type SessionID string

// WalletAddress identifies the credential holder. It is opaque to this service:
// no checksum or chain-specific validation is performed beyond basic shape checks.
type WalletAddress string

// SubjectID is the provider-scoped opaque subject identifier. It is never the
// wallet address; providers return it so credentials cannot be linked to the
// wallet by a third party holding only the credential.
type SubjectID string

// AppID identifies a third-party application requesting proofs. Each unrelated
// application must use a distinct AppID or cross-application unlinkability breaks.
type AppID string

// Provider names a verification source (OAuth social account, wallet signature, ledger).
type Provider string

// Known providers. The set is open; these are the ones with dedicated polling cadences.
const (
	ProviderGoogle  Provider = "google"
	ProviderGitHub  Provider = "github"
	ProviderTwitter Provider = "twitter"
	ProviderDiscord Provider = "discord"
	ProviderEVM     Provider = "evm_wallet"
	ProviderLedger  Provider = "ledger"
)

const sessionIDPrefix = "sess_"

var validProvider = regexp.MustCompile(`^[a-z][a-z0-9_]{1,63}$`)

// NewSessionID generates a new session ID with a stable prefix.
func NewSessionID() SessionID {
	return SessionID(sessionIDPrefix + uuid.NewString())
}

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseSessionID(s string) (SessionID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "session ID cannot be empty")
	}
	if !strings.HasPrefix(s, sessionIDPrefix) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "session ID must start with sess_")
	}
	if _, err := uuid.Parse(strings.TrimPrefix(s, sessionIDPrefix)); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid session ID format")
	}
	return SessionID(s), nil
}

func ParseWalletAddress(s string) (WalletAddress, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "wallet address cannot be empty")
	}
	if len(s) > 128 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "wallet address too long")
	}
	return WalletAddress(s), nil
}

func ParseAppID(s string) (AppID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "app ID cannot be empty")
	}
	if len(s) > 128 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "app ID too long")
	}
	return AppID(s), nil
}

func ParseProvider(s string) (Provider, error) {
	if !validProvider.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid provider name")
	}
	return Provider(s), nil
}

// SignatureBased reports whether the provider verifies via a wallet signature
// rather than an OAuth redirect. Signature flows complete faster and are polled
// on a tighter cadence.
func (p Provider) SignatureBased() bool {
	return p == ProviderEVM || p == ProviderLedger
}

// String methods - for logging and debugging.

func (id SessionID) String() string    { return string(id) }
func (w WalletAddress) String() string { return string(w) }
func (s SubjectID) String() string     { return string(s) }
func (a AppID) String() string         { return string(a) }
func (p Provider) String() string      { return string(p) }

// IsNil checks - used for service-layer validation.

func (id SessionID) IsNil() bool    { return id == "" }
func (w WalletAddress) IsNil() bool { return w == "" }
func (s SubjectID) IsNil() bool     { return s == "" }
func (a AppID) IsNil() bool         { return a == "" }
func (p Provider) IsNil() bool      { return p == "" }
