// Package handler exposes read access to business profiles.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"contentguard/internal/business"
	"contentguard/pkg/domainerrors"
	"contentguard/pkg/httputil"
	"contentguard/pkg/requestcontext"
)

// Store is the slice of the business store the handler needs.
type Store interface {
	Get(ctx context.Context, id string) (business.Profile, error)
}

// Handler serves business profile lookups.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// New constructs a business handler.
func New(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts business endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/business/{id}", h.HandleGet)
}

// ProfileResponse is the HTTP response for GET /business/{id}.
type ProfileResponse struct {
	BusinessID       string    `json:"business_id"`
	Name             string    `json:"name,omitempty"`
	BusinessType     string    `json:"business_type"`
	RegisteredDomain string    `json:"registered_domain"`
	AllowedDomains   []string  `json:"allowed_domains"`
	Verified         bool      `json:"verified"`
	CreatedAt        time.Time `json:"created_at"`
}

// HandleGet handles GET /business/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeValidation, "business id is required"))
		return
	}

	profile, err := h.store.Get(ctx, id)
	if err != nil {
		if domainerrors.CodeOf(err) != domainerrors.CodeNotFound {
			h.logger.ErrorContext(ctx, "business profile fetch failed",
				"request_id", requestID,
				"business_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ProfileResponse{
		BusinessID:       profile.ID,
		Name:             profile.Name,
		BusinessType:     string(profile.Type),
		RegisteredDomain: profile.RegisteredDomain,
		AllowedDomains:   profile.AllowedDomains,
		Verified:         profile.Verified,
		CreatedAt:        profile.CreatedAt,
	})
}
