package classifier

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentguard/internal/domain"
)

func TestClient_PredictText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/classify/text", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":"electronics","confidence":0.87}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	pred, err := c.PredictText(t.Context(), "smart home devices")
	require.NoError(t, err)
	assert.Equal(t, "electronics", pred.Category)
	assert.Equal(t, 0.87, pred.Confidence)
	assert.Equal(t, domain.SourceText, pred.Source)
}

func TestClient_Errors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second).PredictText(t.Context(), "x")
		assert.Error(t, err)
	})

	t.Run("confidence outside the 0-1 contract", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"category":"food","confidence":87.0}`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second).PredictImage(t.Context(), "img-1")
		assert.Error(t, err)
	})
}
