package domain

// PredictionSource identifies which modality (or combination) produced a
// prediction.
type PredictionSource string

const (
	SourceText      PredictionSource = "text"
	SourceImage     PredictionSource = "image"
	SourceTextOnly  PredictionSource = "text_only"
	SourceImageOnly PredictionSource = "image_only"
	SourceFused     PredictionSource = "fused"
)

// Sentinel categories produced by the fuser when no real category is available.
const (
	CategoryUnknown = "unknown"
	CategoryError   = "error"
)

// Prediction is a single content-category prediction. Confidence is always on
// a 0-1 scale; classifiers reporting on a different range must normalize before
// handing predictions to the engine. Immutable once created.
type Prediction struct {
	Category     string
	Confidence   float64
	IsRestricted bool
	Source       PredictionSource

	// Err carries the recovered failure message when a component produced an
	// error-shaped prediction instead of propagating a panic.
	Err string
}
