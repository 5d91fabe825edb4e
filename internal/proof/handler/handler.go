// Package handler exposes the proof request endpoint to authenticated
// applications.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"persona/internal/appauth"
	"persona/internal/proof/models"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/httputil"
	request "persona/pkg/platform/middleware/request"
)

// Service defines the proof operation the handler needs.
type Service interface {
	RequestAccessProof(ctx context.Context, ownerRef string, req models.ProofRequest) (models.ProofResponse, error)
}

// Handler serves the /proofs endpoints.
type Handler struct {
	service   Service
	validator appauth.Validator
	logger    *slog.Logger
}

// New creates the proof handler.
func New(service Service, validator appauth.Validator, logger *slog.Logger) *Handler {
	return &Handler{service: service, validator: validator, logger: logger}
}

// Register mounts the proof routes on the given router. All routes require an
// application bearer token.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(appauth.RequireApp(h.validator, h.logger))
		r.Post("/proofs/access", h.HandleAccessProof)
	})
}

// HandleAccessProof runs the access proof flow for the authenticated
// application. The appId in the body must match the token's application
// identity so one application cannot consume another's nullifier.
func (h *Handler) HandleAccessProof(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	claims, ok := appauth.ClaimsFromContext(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing application identity"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.ProofRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if req.AppID != claims.AppID {
		h.logger.WarnContext(ctx, "app id mismatch",
			"token_app_id", claims.AppID, "request_app_id", req.AppID, "request_id", requestID)
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "appId does not match token"))
		return
	}

	resp, err := h.service.RequestAccessProof(ctx, claims.Wallet, *req)
	if err != nil {
		h.logger.ErrorContext(ctx, "access proof request failed",
			"app_id", req.AppID, "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
