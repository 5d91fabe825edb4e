package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"persona/pkg/platform/circuit"
	dErrors "persona/pkg/domain-errors"
)

// HTTPAgent is an Agent implementation speaking JSON over HTTP to a wallet
// agent daemon. A circuit breaker fails requests fast while the daemon is down
// instead of letting every caller burn its full retry budget.
type HTTPAgent struct {
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker
	caps    CapabilitySet
	logger  *slog.Logger
}

// HTTPAgentOption configures an HTTPAgent.
type HTTPAgentOption func(*HTTPAgent)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) HTTPAgentOption {
	return func(a *HTTPAgent) {
		if c != nil {
			a.client = c
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) HTTPAgentOption {
	return func(a *HTTPAgent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCapabilities overrides capability discovery, mostly for tests.
func WithCapabilities(caps CapabilitySet) HTTPAgentOption {
	return func(a *HTTPAgent) {
		a.caps = caps
	}
}

// NewHTTPAgent creates an agent client for the given base URL and discovers
// its capabilities. Discovery failure is not fatal: the agent starts with an
// empty capability set and callers degrade per their documented fallbacks.
func NewHTTPAgent(ctx context.Context, baseURL string, opts ...HTTPAgentOption) *HTTPAgent {
	a := &HTTPAgent{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 35 * time.Second},
		breaker: circuit.New("wallet_agent"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.caps == nil {
		a.caps = a.discoverCapabilities(ctx)
	}
	return a
}

func (a *HTTPAgent) RequestTransaction(ctx context.Context, tx Transaction) (TransactionResult, error) {
	var resp TransactionResult
	if err := a.do(ctx, http.MethodPost, "/agent/transactions", tx, &resp); err != nil {
		return TransactionResult{}, err
	}
	return resp, nil
}

func (a *HTTPAgent) RequestRecords(ctx context.Context, programID string) ([]EncryptedRecord, error) {
	var resp struct {
		Records []EncryptedRecord `json:"records"`
	}
	path := "/agent/records/" + url.PathEscape(programID)
	if err := a.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (a *HTTPAgent) RequestRecordPlaintexts(ctx context.Context, programID string) ([]Record, error) {
	var resp struct {
		Records []Record `json:"records"`
	}
	path := "/agent/records/" + url.PathEscape(programID) + "/plaintexts"
	if err := a.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (a *HTTPAgent) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	var resp struct {
		Plaintext string `json:"plaintext"`
	}
	body := map[string]string{"ciphertext": ciphertext}
	if err := a.do(ctx, http.MethodPost, "/agent/decrypt", body, &resp); err != nil {
		return "", err
	}
	return resp.Plaintext, nil
}

func (a *HTTPAgent) Capabilities() CapabilitySet {
	return a.caps
}

func (a *HTTPAgent) discoverCapabilities(ctx context.Context) CapabilitySet {
	var resp struct {
		Capabilities []Capability `json:"capabilities"`
	}
	if err := a.do(ctx, http.MethodGet, "/agent/capabilities", nil, &resp); err != nil {
		a.logger.WarnContext(ctx, "agent capability discovery failed", "error", err)
		return CapabilitySet{}
	}
	caps := make(CapabilitySet, len(resp.Capabilities))
	for _, c := range resp.Capabilities {
		caps[c] = true
	}
	return caps
}

func (a *HTTPAgent) do(ctx context.Context, method, path string, body, out any) error {
	if !a.breaker.Allow() {
		return dErrors.New(dErrors.CodeAgentUnavailable, "wallet agent circuit open")
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "could not encode agent request")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not build agent request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		if opened := a.breaker.RecordFailure(); opened {
			a.logger.ErrorContext(ctx, "wallet agent circuit opened", "error", err)
		}
		return dErrors.Wrap(err, dErrors.CodeTransient, "wallet agent unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		if opened := a.breaker.RecordFailure(); opened {
			a.logger.ErrorContext(ctx, "wallet agent circuit opened", "status", resp.StatusCode)
		}
		return dErrors.New(dErrors.CodeTransient, fmt.Sprintf("wallet agent returned %d", resp.StatusCode))
	}
	if closed := a.breaker.RecordSuccess(); closed {
		a.logger.InfoContext(ctx, "wallet agent circuit closed")
	}

	if resp.StatusCode >= 400 {
		var agentErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&agentErr)
		return mapAgentError(resp.StatusCode, agentErr.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return dErrors.Wrap(err, dErrors.CodeTransient, "could not decode agent response")
		}
	}
	return nil
}

// mapAgentError translates agent-reported failures into the domain taxonomy.
func mapAgentError(status int, msg string) error {
	switch {
	case status == http.StatusConflict:
		return dErrors.New(dErrors.CodeReplayRejected, msg)
	case status == http.StatusForbidden:
		return dErrors.New(dErrors.CodeUserRejected, msg)
	case msg == "":
		return dErrors.New(dErrors.CodeTransient, fmt.Sprintf("wallet agent returned %d", status))
	default:
		return dErrors.New(dErrors.CodeTransient, msg)
	}
}

var _ Agent = (*HTTPAgent)(nil)
