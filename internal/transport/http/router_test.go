package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentguard/internal/audit"
	"contentguard/internal/auth"
	"contentguard/internal/business"
	businesshandler "contentguard/internal/business/handler"
	"contentguard/internal/classifier"
	"contentguard/internal/decision"
	decisionhandler "contentguard/internal/decision/handler"
	"contentguard/internal/policy"
	policyhandler "contentguard/internal/policy/handler"
)

func newTestRouter(t *testing.T, ready func(context.Context) error) http.Handler {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	profiles := business.NewMemoryStore()
	require.NoError(t, profiles.Seed(t.Context()))

	policyStore := policy.NewStore(policy.Default(), "")
	svc := decision.NewService(decision.ServiceConfig{
		Engine:    decision.NewEngine(decision.Options{}),
		Policies:  policyStore,
		Profiles:  profiles,
		Predictor: classifier.KeywordPredictor{},
		Audit:     audit.NewPublisher(audit.NewMemoryStore(), nil, log),
		Logger:    log,
	})

	return NewRouter(RouterConfig{
		Logger:   log,
		Decision: decisionhandler.New(svc, log),
		Policy:   policyhandler.New(policyStore, log),
		Business: businesshandler.New(profiles, log),
		Admin:    auth.NewService("test-key", "contentguard"),
		Ready:    ready,
	})
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_Readiness(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		r := newTestRouter(t, func(context.Context) error { return nil })
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("dependency down", func(t *testing.T) {
		r := newTestRouter(t, func(context.Context) error { return errors.New("pg down") })
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRouter_AnalyzeEndToEnd(t *testing.T) {
	r := newTestRouter(t, nil)

	body := `{
		"user_text": "Enroll in our advanced Python programming course with certification",
		"registered_domain": "education",
		"business_id": "B057"
	}`
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Approved", resp["status"])
	assert.Equal(t, "education", resp["detected_category"])
}

func TestRouter_AdminGating(t *testing.T) {
	r := newTestRouter(t, nil)
	authSvc := auth.NewService("test-key", "contentguard")

	post := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/policy/reload", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("no token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, post("").Code)
	})

	t.Run("non-admin role", func(t *testing.T) {
		token, err := authSvc.GenerateToken("viewer@example.com", "viewer", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, post(token).Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token, err := auth.NewService("other-key", "contentguard").GenerateToken("x", auth.RoleAdmin, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, post(token).Code)
	})

	t.Run("admin", func(t *testing.T) {
		token, err := authSvc.GenerateToken("ops@example.com", auth.RoleAdmin, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, post(token).Code)
	})
}

func TestRouter_PolicyRestricted(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/policy/restricted", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "weapons")
}
