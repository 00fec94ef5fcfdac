// Package httptransport assembles the HTTP surface: routing, middleware, and
// operational endpoints. Handlers delegate to domain services; no business
// logic lives here.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	businesshandler "contentguard/internal/business/handler"
	decisionhandler "contentguard/internal/decision/handler"
	"contentguard/internal/platform/metrics"
	policyhandler "contentguard/internal/policy/handler"
	"contentguard/pkg/httputil"
)

// RouterConfig wires the router's collaborators.
type RouterConfig struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Decision *decisionhandler.Handler
	Policy   *policyhandler.Handler
	Business *businesshandler.Handler
	Admin    TokenValidator

	// Ready reports whether downstream dependencies are reachable. Nil means
	// always ready.
	Ready func(ctx context.Context) error
}

// NewRouter wires all endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(observe(cfg.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(req.Context()); err != nil {
				cfg.Logger.WarnContext(req.Context(), "readiness check failed", "error", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		cfg.Decision.Register(r)
		cfg.Policy.Register(r)
		cfg.Business.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(cfg.Admin))
		cfg.Policy.RegisterAdmin(r)
	})

	return r
}

// observe records per-route prometheus metrics using chi's route pattern so
// path parameters do not explode cardinality.
func observe(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, r.Method, strconv.Itoa(ww.Status()), time.Since(start))
		})
	}
}
