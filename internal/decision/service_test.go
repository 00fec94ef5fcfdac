package decision

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentguard/internal/audit"
	"contentguard/internal/business"
	"contentguard/internal/classifier"
	"contentguard/internal/domain"
	"contentguard/internal/policy"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, predictor classifier.Predictor) (*Service, *audit.MemoryStore) {
	t.Helper()

	profiles := business.NewMemoryStore()
	require.NoError(t, profiles.Seed(t.Context()))

	auditStore := audit.NewMemoryStore()
	svc := NewService(ServiceConfig{
		Engine:    NewEngine(Options{}),
		Policies:  policy.NewStore(policy.Default(), ""),
		Profiles:  profiles,
		Predictor: predictor,
		Audit:     audit.NewPublisher(auditStore, nil, discardLogger()),
		Logger:    discardLogger(),
	})
	return svc, auditStore
}

type failingPredictor struct {
	textErr  error
	imageErr error
}

func (p failingPredictor) PredictText(context.Context, string) (domain.Prediction, error) {
	if p.textErr != nil {
		return domain.Prediction{}, p.textErr
	}
	return domain.Prediction{Category: "food", Confidence: 0.8, Source: domain.SourceText}, nil
}

func (p failingPredictor) PredictImage(context.Context, string) (domain.Prediction, error) {
	if p.imageErr != nil {
		return domain.Prediction{}, p.imageErr
	}
	return domain.Prediction{Category: "food", Confidence: 0.7, Source: domain.SourceImage}, nil
}

type erroringProfileStore struct{}

func (erroringProfileStore) Get(context.Context, string) (business.Profile, error) {
	return business.Profile{}, errors.New("connection refused")
}

func TestAnalyze_ApprovedForRegisteredBusiness(t *testing.T) {
	svc, auditStore := newTestService(t, classifier.KeywordPredictor{})

	res := svc.Analyze(t.Context(), AnalyzeRequest{
		Text:             "Enroll in our advanced Python programming course with certification",
		RegisteredDomain: "education",
		BusinessID:       "B057",
	})

	assert.Equal(t, StatusApproved, res.Status)
	assert.Equal(t, "education", res.DetectedCategory)
	assert.True(t, res.DomainMatch)

	events, err := auditStore.ListByBusiness(t.Context(), "B057")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(StatusApproved), events[0].Status)
	assert.Equal(t, "education", events[0].DetectedCategory)
}

func TestAnalyze_InvalidRegisteredDomain(t *testing.T) {
	svc, _ := newTestService(t, classifier.KeywordPredictor{})

	res := svc.Analyze(t.Context(), AnalyzeRequest{
		Text:             "Enroll in our advanced Python programming course with certification",
		RegisteredDomain: "beauty",
		BusinessID:       "B057",
	})

	assert.Equal(t, StatusRejectedInvalidDomain, res.Status)
	assert.Contains(t, res.Reason, "beauty")
}

func TestAnalyze_MarketplaceCrossPostingRejected(t *testing.T) {
	svc, _ := newTestService(t, classifier.KeywordPredictor{})

	res := svc.Analyze(t.Context(), AnalyzeRequest{
		Text:             "Smart home devices with voice control and smartphone integration",
		RegisteredDomain: "beauty",
		BusinessID:       "M001",
	})

	assert.Equal(t, StatusRejectedDomainMismatch, res.Status)
	assert.Equal(t, "electronics", res.DetectedCategory)
	assert.True(t, res.IsRegisteredDomainValid)
}

func TestAnalyze_RestrictedContentRejectedEverywhere(t *testing.T) {
	svc, _ := newTestService(t, classifier.KeywordPredictor{})

	for _, businessID := range []string{"", "B057", "M001"} {
		res := svc.Analyze(t.Context(), AnalyzeRequest{
			Text:             "Firearms and rifles for sale with ammunition",
			RegisteredDomain: "sports",
			BusinessID:       businessID,
		})
		assert.Equal(t, StatusRejectedRestricted, res.Status, "business %q", businessID)
	}
}

func TestAnalyze_EmptyTextFlagged(t *testing.T) {
	svc, _ := newTestService(t, classifier.KeywordPredictor{})

	for _, text := range []string{"", "   ", "!!! ... ???", "https://example.com/only-a-link"} {
		res := svc.Analyze(t.Context(), AnalyzeRequest{
			Text:             text,
			RegisteredDomain: "education",
		})
		assert.Equal(t, StatusFlagged, res.Status, "text %q", text)
		assert.Equal(t, 0.0, res.Confidence)
	}
}

func TestAnalyze_UnknownBusinessUsesFallbackEnforcement(t *testing.T) {
	svc, _ := newTestService(t, classifier.KeywordPredictor{})

	res := svc.Analyze(t.Context(), AnalyzeRequest{
		Text:             "Enroll in our advanced Python programming course with certification",
		RegisteredDomain: "education",
		BusinessID:       "B999",
	})

	// No profile on record: enforcement falls back to the declared domain.
	assert.Equal(t, StatusApproved, res.Status)
	assert.Equal(t, []string{"education"}, res.BusinessAllowedDomains)
}

func TestAnalyze_ProfileStoreOutageIsErrorNotApproval(t *testing.T) {
	svc := NewService(ServiceConfig{
		Engine:    NewEngine(Options{}),
		Policies:  policy.NewStore(policy.Default(), ""),
		Profiles:  erroringProfileStore{},
		Predictor: classifier.KeywordPredictor{},
		Logger:    discardLogger(),
	})

	res := svc.Analyze(t.Context(), AnalyzeRequest{
		Text:             "Enroll in our advanced Python programming course with certification",
		RegisteredDomain: "education",
		BusinessID:       "B057",
	})

	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Reason, "profile lookup failed")
}

func TestAnalyze_ModalityDegradation(t *testing.T) {
	t.Run("text failure degrades to images", func(t *testing.T) {
		svc, _ := newTestService(t, failingPredictor{textErr: errors.New("model unavailable")})

		res := svc.Analyze(t.Context(), AnalyzeRequest{
			Text:             "fresh organic meals",
			Images:           []string{"img-1"},
			RegisteredDomain: "food",
		})

		assert.Equal(t, StatusApproved, res.Status)
		assert.Equal(t, "food", res.DetectedCategory)
	})

	t.Run("all modalities failing is an error", func(t *testing.T) {
		svc, _ := newTestService(t, failingPredictor{
			textErr:  errors.New("model unavailable"),
			imageErr: errors.New("model unavailable"),
		})

		res := svc.Analyze(t.Context(), AnalyzeRequest{
			Text:             "fresh organic meals",
			Images:           []string{"img-1"},
			RegisteredDomain: "food",
		})

		assert.Equal(t, StatusError, res.Status)
		assert.Contains(t, res.Reason, "all classifier modalities failed")
	})
}

func TestEvaluate_DirectPrediction(t *testing.T) {
	svc, auditStore := newTestService(t, classifier.KeywordPredictor{})

	res := svc.Evaluate(t.Context(), domain.Prediction{
		Category:   "electronics",
		Confidence: 0.92,
	}, "beauty", "M001")

	assert.Equal(t, StatusRejectedDomainMismatch, res.Status)

	events, err := auditStore.ListByBusiness(t.Context(), "M001")
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestPreprocess(t *testing.T) {
	assert.Equal(t, "hello world", preprocess("  hello   world  "))
	assert.Equal(t, "check this out", preprocess("check this https://spam.example/x?y=z out"))
	assert.Equal(t, "", preprocess("?!... --- ***"))
	assert.Equal(t, "", preprocess(""))
}
