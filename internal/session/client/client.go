// Package client implements the provider status polling client used by the
// verification session machine.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"persona/internal/session/models"
	id "persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
)

// HTTPStatusClient fetches session status from the provider-facing backend:
// GET {base}/auth/{provider}/status?session=ID.
type HTTPStatusClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStatusClient creates a status client for the given backend base URL.
func NewHTTPStatusClient(baseURL string, httpClient *http.Client) *HTTPStatusClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPStatusClient{baseURL: baseURL, client: httpClient}
}

// Status performs a single status fetch. Transport failures and malformed
// responses are returned as transient errors; the caller decides whether to
// swallow them.
func (c *HTTPStatusClient) Status(ctx context.Context, sessionID id.SessionID, provider id.Provider) (*models.VerificationSession, error) {
	endpoint := fmt.Sprintf("%s/auth/%s/status?session=%s",
		c.baseURL, url.PathEscape(provider.String()), url.QueryEscape(sessionID.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not build status request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTransient, "status fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.New(dErrors.CodeTransient, fmt.Sprintf("status endpoint returned %d", resp.StatusCode))
	}

	var session models.VerificationSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTransient, "could not decode status response")
	}
	return &session, nil
}
