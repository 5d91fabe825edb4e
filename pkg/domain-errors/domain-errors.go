package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeValidation   Code = "validation_failed"
	CodeInternal     Code = "internal_error"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeTimeout      Code = "timeout"

	// Verification and agent error codes. These carry the failure taxonomy of
	// the verification layer: which failures are terminal, which are retriable,
	// and which are security relevant.
	CodeUserRejected     Code = "user_rejected"     // User declined an external prompt; never retried
	CodeAgentUnavailable Code = "agent_unavailable" // No capable wallet agent present; requires user remediation
	CodeTransient        Code = "transient"         // Network/timeout failure; retried per resilience policy
	CodeSessionFailed    Code = "session_failed"    // Provider explicitly reported verification failure
	CodeSessionTimeout   Code = "session_timeout"   // Session polling exceeded its ceiling without a terminal status
	CodeReplayRejected   Code = "replay_rejected"   // Nullifier already present in the uniqueness ledger
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// GetCode returns the domain code of an error, or CodeInternal for errors
// that carry none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsTerminal reports whether the error represents a failure that must not be
// retried: user rejections, missing agent capabilities, provider-reported
// failures, polling timeouts, and replay rejections.
func IsTerminal(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case CodeUserRejected, CodeAgentUnavailable, CodeSessionFailed, CodeSessionTimeout, CodeReplayRejected:
		return true
	}
	return false
}
