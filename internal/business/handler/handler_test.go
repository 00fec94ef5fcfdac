package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentguard/internal/business"
)

func newRouter(t *testing.T) (*chi.Mux, *business.MemoryStore) {
	t.Helper()

	store := business.NewMemoryStore()
	require.NoError(t, store.Seed(t.Context()))

	h := New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return r, store
}

func TestHandleGet(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/business/B057", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "B057", resp.BusinessID)
	assert.Equal(t, string(business.TypeSingleDomain), resp.BusinessType)
	assert.Equal(t, []string{"education"}, resp.AllowedDomains)
}

func TestHandleGet_NotFound(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/business/B999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp["error"])
}

type erroringStore struct{}

func (erroringStore) Get(context.Context, string) (business.Profile, error) {
	return business.Profile{}, assertableErr{}
}

type assertableErr struct{}

func (assertableErr) Error() string { return "store down" }

func TestHandleGet_StoreFailure(t *testing.T) {
	h := New(erroringStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/business/B057", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "store down")
}
