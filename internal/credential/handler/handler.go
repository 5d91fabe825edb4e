// Package handler exposes the holder-facing credential REST surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"persona/internal/credential/models"
	"persona/internal/events"
	"persona/internal/score"
	id "persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/httputil"
	request "persona/pkg/platform/middleware/request"
)

// Service defines the credential operations the handler needs.
type Service interface {
	List(ctx context.Context, wallet id.WalletAddress) ([]models.Credential, error)
	Delete(ctx context.Context, wallet id.WalletAddress, provider id.Provider) error
}

// Handler serves the /user credential endpoints.
type Handler struct {
	service Service
	cache   *scoreCache
	logger  *slog.Logger
}

// New creates the handler and subscribes its score cache to credential
// updates so cached totals never go stale after a save or delete.
func New(service Service, bus *events.Bus, logger *slog.Logger) (*Handler, error) {
	h := &Handler{
		service: service,
		cache:   newScoreCache(),
		logger:  logger,
	}
	if bus != nil {
		if err := bus.SubscribeCredentialUpdated(h.cache.invalidate); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Register mounts the credential routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/user/{id}/score", h.HandleScore)
	r.Get("/user/{id}/verifications", h.HandleVerifications)
	r.Delete("/user/{id}/verifications/{provider}", h.HandleDeleteVerification)
}

// ScoreResponse is the aggregate score payload.
type ScoreResponse struct {
	UserID         string                              `json:"userId"`
	TotalScore     uint64                              `json:"totalScore"`
	VerifiedCount  int                                 `json:"verifiedCount"`
	TotalProviders int                                 `json:"totalProviders"`
	Breakdown      map[id.Provider]score.ProviderScore `json:"breakdown"`
	Timestamp      time.Time                           `json:"timestamp"`
}

// HandleScore returns the wallet's total score and per-provider breakdown.
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	wallet, err := id.ParseWalletAddress(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if cached, ok := h.cache.get(wallet); ok {
		httputil.WriteJSON(w, http.StatusOK, cached)
		return
	}

	creds, err := h.service.List(ctx, wallet)
	if err != nil {
		h.logger.ErrorContext(ctx, "list credentials failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	now := time.Now().UTC()
	breakdown := score.ComputeBreakdown(creds, now)
	response := ScoreResponse{
		UserID:         wallet.String(),
		TotalScore:     score.TotalScore(creds, now),
		VerifiedCount:  breakdown.VerifiedCount,
		TotalProviders: breakdown.TotalProviders,
		Breakdown:      breakdown.Providers,
		Timestamp:      now,
	}
	h.cache.set(wallet, response)
	httputil.WriteJSON(w, http.StatusOK, response)
}

// VerificationEntry is one provider connection in the verifications listing.
type VerificationEntry struct {
	Provider   id.Provider        `json:"provider"`
	Score      uint64             `json:"score"`
	MaxScore   uint64             `json:"maxScore"`
	Status     models.Status      `json:"status"`
	Criteria   []models.Criterion `json:"criteria"`
	VerifiedAt time.Time          `json:"verifiedAt"`
	ExpiresAt  time.Time          `json:"expiresAt"`
	DaysLeft   int                `json:"daysRemaining"`
}

// VerificationsResponse lists a wallet's provider connections.
type VerificationsResponse struct {
	UserID        string              `json:"userId"`
	Verifications []VerificationEntry `json:"verifications"`
	Count         int                 `json:"count"`
}

// HandleVerifications lists all provider connections for a wallet.
func (h *Handler) HandleVerifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	wallet, err := id.ParseWalletAddress(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	creds, err := h.service.List(ctx, wallet)
	if err != nil {
		h.logger.ErrorContext(ctx, "list credentials failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	now := time.Now().UTC()
	entries := make([]VerificationEntry, 0, len(creds))
	for _, c := range creds {
		entries = append(entries, VerificationEntry{
			Provider:   c.Provider,
			Score:      c.Score,
			MaxScore:   c.MaxScore,
			Status:     c.Status,
			Criteria:   c.Criteria,
			VerifiedAt: c.VerifiedAt,
			ExpiresAt:  c.ExpiresAt,
			DaysLeft:   c.DaysRemaining(now),
		})
	}

	httputil.WriteJSON(w, http.StatusOK, VerificationsResponse{
		UserID:        wallet.String(),
		Verifications: entries,
		Count:         len(entries),
	})
}

// DeleteResponse confirms a provider connection deletion.
type DeleteResponse struct {
	UserID   string `json:"userId"`
	Provider string `json:"provider"`
	Deleted  bool   `json:"deleted"`
}

// HandleDeleteVerification removes a provider connection at the holder's request.
func (h *Handler) HandleDeleteVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	wallet, err := id.ParseWalletAddress(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	provider, err := id.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, wallet, provider); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "delete credential failed", "error", err, "request_id", requestID)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, DeleteResponse{
		UserID:   wallet.String(),
		Provider: provider.String(),
		Deleted:  true,
	})
}
