// Package handler exposes the policy read and admin endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"contentguard/internal/policy"
	"contentguard/pkg/domainerrors"
	"contentguard/pkg/httputil"
	"contentguard/pkg/requestcontext"
)

// Handler serves policy snapshots and the hot-reload endpoint.
type Handler struct {
	store  *policy.Store
	logger *slog.Logger
}

// New constructs a policy handler.
func New(store *policy.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts the public policy endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/policy/restricted", h.HandleRestricted)
}

// RegisterAdmin mounts admin-only endpoints. The router is expected to guard
// this group with authentication middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/policy/reload", h.HandleReload)
}

// RestrictedResponse is the HTTP response for GET /policy/restricted.
type RestrictedResponse struct {
	RestrictedCategories []string `json:"restricted_categories"`
	HighRiskCategories   []string `json:"high_risk_categories"`
	MediumRiskCategories []string `json:"medium_risk_categories"`
	BusinessDomains      []string `json:"business_domains"`
	ConfidenceThreshold  float64  `json:"confidence_threshold"`
}

// HandleRestricted handles GET /policy/restricted requests.
func (h *Handler) HandleRestricted(w http.ResponseWriter, r *http.Request) {
	cfg := h.store.Current()
	httputil.WriteJSON(w, http.StatusOK, RestrictedResponse{
		RestrictedCategories: cfg.RestrictedCategories,
		HighRiskCategories:   cfg.HighRiskCategories,
		MediumRiskCategories: cfg.MediumRiskCategories,
		BusinessDomains:      cfg.BusinessDomains,
		ConfidenceThreshold:  cfg.ConfidenceThreshold,
	})
}

// HandleReload handles POST /policy/reload requests. A failed reload keeps
// the previous snapshot active.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if err := h.store.Reload(); err != nil {
		h.logger.ErrorContext(ctx, "policy reload failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeInternal, "policy reload failed"))
		return
	}

	cfg := h.store.Current()
	h.logger.InfoContext(ctx, "policy reloaded",
		"request_id", requestID,
		"restricted_categories", len(cfg.RestrictedCategories),
		"confidence_threshold", cfg.ConfidenceThreshold,
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"reloaded":              true,
		"restricted_categories": len(cfg.RestrictedCategories),
		"confidence_threshold":  cfg.ConfidenceThreshold,
	})
}
