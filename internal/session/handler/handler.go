// Package handler exposes the verification session endpoints: flow start,
// status polling, and the provider callback that lands terminal outcomes.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"persona/internal/session/models"
	id "persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/httputil"
	request "persona/pkg/platform/middleware/request"
)

// Service defines the session machine operations the handler needs.
type Service interface {
	Start(ctx context.Context, provider id.Provider, wallet id.WalletAddress, userAgent string) (id.SessionID, error)
	Session(ctx context.Context, sessionID id.SessionID) (*models.VerificationSession, error)
	Complete(ctx context.Context, sessionID id.SessionID, outcome models.PollOutcome) error
}

// Handler serves the /auth session endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates the session handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the session routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/{provider}/start", h.HandleStart)
	r.Get("/auth/{provider}/status", h.HandleStatus)
	r.Post("/auth/{provider}/callback", h.HandleCallback)
}

// StartRequest opens a verification flow for a wallet.
type StartRequest struct {
	Wallet string `json:"wallet"`
}

// Validate implements httputil.Validatable.
func (r *StartRequest) Validate() error {
	_, err := id.ParseWalletAddress(r.Wallet)
	return err
}

// StartResponse carries the session identifier used for polling.
type StartResponse struct {
	SessionID string `json:"sessionId"`
}

// HandleStart opens a provider verification flow.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	provider, err := id.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[StartRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	wallet, _ := id.ParseWalletAddress(req.Wallet)

	sessionID, err := h.service.Start(ctx, provider, wallet, r.UserAgent())
	if err != nil {
		h.logger.ErrorContext(ctx, "session start failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, StartResponse{SessionID: sessionID.String()})
}

// HandleStatus serves a single session status fetch for pollers.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := id.ParseSessionID(r.URL.Query().Get("session"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	session, err := h.service.Session(ctx, sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

// CallbackRequest is a provider-reported terminal outcome.
type CallbackRequest struct {
	SessionID string                     `json:"sessionId"`
	Status    models.Status              `json:"status"`
	Result    *models.VerificationResult `json:"result,omitempty"`
}

// Validate implements httputil.Validatable.
func (r *CallbackRequest) Validate() error {
	if _, err := id.ParseSessionID(r.SessionID); err != nil {
		return err
	}
	if !r.Status.Terminal() {
		return dErrors.New(dErrors.CodeValidation, "status must be terminal")
	}
	if r.Status == models.StatusVerified && r.Result == nil {
		return dErrors.New(dErrors.CodeValidation, "verified callback requires a result")
	}
	return nil
}

// HandleCallback lands a provider-reported terminal outcome on a session.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CallbackRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sessionID, _ := id.ParseSessionID(req.SessionID)

	outcome := models.PollOutcome{Status: req.Status, Result: req.Result}
	if err := h.service.Complete(ctx, sessionID, outcome); err != nil {
		h.logger.ErrorContext(ctx, "session callback failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
