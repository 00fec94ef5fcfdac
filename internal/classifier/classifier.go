// Package classifier defines the contract with the external content
// classifiers and thin adapters over them. Category prediction itself is a
// collaborator concern: the engine only consumes {category, confidence} pairs
// already normalized to a 0-1 confidence scale.
package classifier

import (
	"context"

	"contentguard/internal/domain"
)

// Predictor produces per-modality category predictions.
type Predictor interface {
	// PredictText classifies a text body.
	PredictText(ctx context.Context, text string) (domain.Prediction, error)
	// PredictImage classifies a single image by reference (URL or object key).
	PredictImage(ctx context.Context, imageRef string) (domain.Prediction, error)
}
