package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"contentguard/internal/decision"
	"contentguard/internal/domain"
	"contentguard/pkg/httputil"
	"contentguard/pkg/requestcontext"
)

// Service defines the interface for decision operations.
type Service interface {
	Analyze(ctx context.Context, req decision.AnalyzeRequest) decision.Result
	Evaluate(ctx context.Context, pred domain.Prediction, registeredDomain, businessID string) decision.Result
	EvaluateModalities(ctx context.Context, text *domain.Prediction, images []domain.Prediction, registeredDomain, businessID string) decision.Result
}

// Handler wires decision endpoints to the decision service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a decision handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts decision endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/analyze", h.HandleAnalyze)
	r.Post("/decision/evaluate", h.HandleEvaluate)
}

// HandleAnalyze handles POST /analyze requests: the full pipeline from raw
// content to a decision.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[AnalyzeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.service.Analyze(ctx, req.ToServiceRequest())

	h.logger.InfoContext(ctx, "content analyzed",
		"request_id", requestID,
		"business_id", req.BusinessID,
		"registered_domain", req.RegisteredDomain,
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleEvaluate handles POST /decision/evaluate requests: the engine-only
// path for callers that bring their own classification.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var result decision.Result
	if pred, fused := req.Fused(); fused {
		result = h.service.Evaluate(ctx, pred, req.RegisteredDomain, req.BusinessID)
	} else {
		text, images := req.Modalities()
		result = h.service.EvaluateModalities(ctx, text, images, req.RegisteredDomain, req.BusinessID)
	}

	h.logger.InfoContext(ctx, "prediction evaluated",
		"request_id", requestID,
		"business_id", req.BusinessID,
		"registered_domain", req.RegisteredDomain,
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}
