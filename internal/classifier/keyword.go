package classifier

import (
	"context"
	"strings"
	"time"

	"contentguard/internal/domain"
)

// KeywordPredictor is a deterministic stand-in for the trained classifiers,
// used in dev mode and tests. It scores categories by keyword hits with a
// configurable latency to mimic a real model call.
type KeywordPredictor struct {
	Latency time.Duration
}

var keywordCategories = map[string][]string{
	"weapons":     {"firearm", "firearms", "rifle", "rifles", "gun", "guns", "ammunition", "pistol"},
	"drugs":       {"narcotic", "narcotics", "cannabis", "cocaine", "opioid"},
	"education":   {"course", "courses", "certification", "enroll", "curriculum", "tutoring", "learn"},
	"electronics": {"smartphone", "laptop", "gadget", "device", "devices", "headphones", "smart"},
	"food":        {"recipe", "restaurant", "meal", "organic", "cuisine", "catering"},
	"beauty":      {"skincare", "makeup", "cosmetics", "serum", "fragrance"},
	"fashion":     {"apparel", "clothing", "outfit", "sneakers", "dress"},
	"automotive":  {"car", "cars", "vehicle", "engine", "sedan", "suv"},
	"tech":        {"software", "startup", "cloud", "api", "platform"},
	"healthcare":  {"clinic", "therapy", "wellness", "medical"},
	"home":        {"furniture", "decor", "kitchenware", "bedding"},
}

func (p KeywordPredictor) PredictText(_ context.Context, text string) (domain.Prediction, error) {
	time.Sleep(p.Latency)
	return p.classify(text, domain.SourceText), nil
}

func (p KeywordPredictor) PredictImage(_ context.Context, imageRef string) (domain.Prediction, error) {
	time.Sleep(p.Latency)
	// Image references carry no pixels here; score the filename tokens.
	return p.classify(strings.NewReplacer("/", " ", "_", " ", "-", " ", ".", " ").Replace(imageRef), domain.SourceImage), nil
}

func (p KeywordPredictor) classify(text string, source domain.PredictionSource) domain.Prediction {
	tokens := strings.Fields(strings.ToLower(text))
	present := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		present[strings.Trim(tok, ".,!?:;'\"()")] = true
	}

	bestCategory := domain.CategoryUnknown
	bestHits := 0
	for _, category := range keywordCategoryOrder {
		hits := 0
		for _, kw := range keywordCategories[category] {
			if present[kw] {
				hits++
			}
		}
		if hits > bestHits {
			bestCategory, bestHits = category, hits
		}
	}

	confidence := 0.0
	if bestHits > 0 {
		confidence = 0.35 + 0.15*float64(bestHits)
		if confidence > 0.95 {
			confidence = 0.95
		}
	}

	return domain.Prediction{
		Category:   bestCategory,
		Confidence: confidence,
		Source:     source,
	}
}

// keywordCategoryOrder fixes iteration order so equal hit counts resolve
// deterministically.
var keywordCategoryOrder = []string{
	"weapons", "drugs", "education", "electronics", "food", "beauty",
	"fashion", "automotive", "tech", "healthcare", "home",
}
