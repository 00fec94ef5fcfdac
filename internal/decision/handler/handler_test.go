package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentguard/internal/decision"
	"contentguard/internal/domain"
)

type fakeService struct {
	analyzeReq  *decision.AnalyzeRequest
	evalPred    *domain.Prediction
	modalityCnt int
	result      decision.Result
}

func (f *fakeService) Analyze(_ context.Context, req decision.AnalyzeRequest) decision.Result {
	f.analyzeReq = &req
	return f.result
}

func (f *fakeService) Evaluate(_ context.Context, pred domain.Prediction, _, _ string) decision.Result {
	f.evalPred = &pred
	return f.result
}

func (f *fakeService) EvaluateModalities(_ context.Context, text *domain.Prediction, images []domain.Prediction, _, _ string) decision.Result {
	f.modalityCnt = len(images)
	if text != nil {
		f.modalityCnt++
	}
	return f.result
}

func newHandler(svc Service) *Handler {
	return New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doPost(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleAnalyze(t *testing.T) {
	svc := &fakeService{result: decision.Result{
		Status:                  decision.StatusApproved,
		Reason:                  "Content matches registered domain 'education'.",
		DetectedCategory:        "education",
		Confidence:              0.8,
		DomainMatch:             true,
		IsRegisteredDomainValid: true,
		BusinessAllowedDomains:  []string{"education"},
	}}
	h := newHandler(svc)

	rec := doPost(t, h.HandleAnalyze, `{
		"user_text": "Enroll in our course",
		"registered_domain": "Education",
		"business_id": "B057"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Approved", resp["status"])
	assert.Equal(t, "education", resp["detected_category"])
	assert.Equal(t, 0.8, resp["confidence_score"])
	assert.Equal(t, true, resp["domain_match"])
	assert.Equal(t, true, resp["is_registered_domain_valid"])
	assert.Equal(t, []any{"education"}, resp["business_allowed_domains"])

	require.NotNil(t, svc.analyzeReq)
	assert.Equal(t, "education", svc.analyzeReq.RegisteredDomain, "registered domain is lowercased")
	assert.Equal(t, "B057", svc.analyzeReq.BusinessID)
}

func TestHandleAnalyze_LegacyCapitalizedFields(t *testing.T) {
	svc := &fakeService{result: decision.Result{Status: decision.StatusFlagged}}
	h := newHandler(svc)

	rec := doPost(t, h.HandleAnalyze, `{
		"User_Text": "some text",
		"Registered_Domain": "food",
		"Business_ID": "B001"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.analyzeReq)
	assert.Equal(t, "some text", svc.analyzeReq.Text)
	assert.Equal(t, "food", svc.analyzeReq.RegisteredDomain)
	assert.Equal(t, "B001", svc.analyzeReq.BusinessID)
}

func TestHandleAnalyze_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing registered_domain", `{"user_text": "hello"}`},
		{"malformed json", `{"user_text": `},
		{"oversized text", `{"user_text": "` + strings.Repeat("a", 10001) + `", "registered_domain": "food"}`},
		{"too many images", `{"registered_domain": "food", "images": ["a","b","c","d","e","f","g","h","i","j","k"]}`},
		{"blank image ref", `{"registered_domain": "food", "images": [" "]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := doPost(t, newHandler(svc).HandleAnalyze, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, svc.analyzeReq, "service must not be called")
		})
	}
}

func TestHandleEvaluate_FusedPrediction(t *testing.T) {
	svc := &fakeService{result: decision.Result{Status: decision.StatusRejectedDomainMismatch}}
	h := newHandler(svc)

	rec := doPost(t, h.HandleEvaluate, `{
		"prediction": {"category": "Electronics", "confidence": 0.92},
		"registered_domain": "beauty",
		"business_id": "M001"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.evalPred)
	assert.Equal(t, "electronics", svc.evalPred.Category)
	assert.Equal(t, 0.92, svc.evalPred.Confidence)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Rejected: Domain Mismatch", resp["status"])
}

func TestHandleEvaluate_ModalityPredictions(t *testing.T) {
	svc := &fakeService{result: decision.Result{Status: decision.StatusApproved}}
	h := newHandler(svc)

	rec := doPost(t, h.HandleEvaluate, `{
		"text_prediction": {"category": "tech", "confidence": 0.7},
		"image_predictions": [{"category": "tech", "confidence": 0.5}],
		"registered_domain": "tech"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.evalPred)
	assert.Equal(t, 2, svc.modalityCnt)
}

func TestHandleEvaluate_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no predictions at all", `{"registered_domain": "food"}`},
		{"fused and modality together", `{
			"prediction": {"category": "food", "confidence": 0.5},
			"text_prediction": {"category": "food", "confidence": 0.5},
			"registered_domain": "food"
		}`},
		{"confidence out of range", `{"prediction": {"category": "food", "confidence": 1.5}, "registered_domain": "food"}`},
		{"missing category", `{"prediction": {"confidence": 0.5}, "registered_domain": "food"}`},
		{"missing registered_domain", `{"prediction": {"category": "food", "confidence": 0.5}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := doPost(t, newHandler(svc).HandleEvaluate, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
