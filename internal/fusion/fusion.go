package fusion

import (
	"fmt"
	"sort"

	"contentguard/internal/domain"
)

// Weights splits the fused confidence budget between modalities. They do not
// need to sum to one; Fuse normalizes them.
type Weights struct {
	Text  float64
	Image float64
}

// DefaultWeights favor the text classifier, which sees the full post body.
var DefaultWeights = Weights{Text: 0.6, Image: 0.4}

// Score is one canonical category with its accumulated fused score.
type Score struct {
	Category string
	Score    float64
}

// Result is a fused prediction plus the ranking and weights that produced it.
type Result struct {
	domain.Prediction

	// TopCategories ranks canonical categories by accumulated score, capped
	// at five entries.
	TopCategories []Score

	// AppliedWeights are the normalized weights actually used.
	AppliedWeights Weights
}

// categoryAliases maps classifier-specific labels onto the canonical business
// categories the decision engine reasons about. Unmapped labels pass through.
var categoryAliases = map[string]string{
	"restaurant":     "food",
	"meal":           "food",
	"computer":       "tech",
	"firearms":       "weapons",
	"guns":           "weapons",
	"medicine":       "drugs",
	"pharmaceutical": "drugs",
	"explicit":       "adult_content",
	"clothing":       "fashion",
	"apparel":        "fashion",
	"vehicle":        "automotive",
	"car":            "automotive",
	"animal":         "nature",
	"plant":          "nature",
	"document":       "education",
	"paper":          "education",
	"face":           "person",
	"portrait":       "person",
}

// Canonical maps a raw classifier category to its canonical form.
func Canonical(category string) string {
	if mapped, ok := categoryAliases[category]; ok {
		return mapped
	}
	return category
}

// Fuse merges one optional text prediction and any number of image predictions
// into a single prediction. It is a pure function: no I/O, no shared state,
// and an internal panic is converted into an error-shaped result rather than
// propagated.
//
// The image confidence budget is split evenly across all image predictions so
// a gallery of low-signal images cannot outvote the text modality. Restricted
// status from any input survives fusion regardless of weights. Score ties are
// broken by insertion order, text first.
func Fuse(text *domain.Prediction, images []domain.Prediction, w Weights) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = errorResult(fmt.Sprintf("fusion failed: %v", r))
		}
	}()

	switch {
	case text == nil && len(images) == 0:
		return Result{
			Prediction: domain.Prediction{
				Category: domain.CategoryUnknown,
				Source:   domain.SourceFused,
			},
			AppliedWeights: normalize(w),
		}

	case text != nil && len(images) == 0:
		fused := *text
		fused.Source = domain.SourceTextOnly
		return Result{
			Prediction:     fused,
			TopCategories:  []Score{{Category: Canonical(fused.Category), Score: fused.Confidence}},
			AppliedWeights: normalize(w),
		}

	case text == nil:
		best := images[0]
		restricted := false
		for _, img := range images {
			if img.Confidence > best.Confidence {
				best = img
			}
			restricted = restricted || img.IsRestricted
		}
		best.Source = domain.SourceImageOnly
		best.IsRestricted = restricted
		return Result{
			Prediction:     best,
			TopCategories:  rankImages(images),
			AppliedWeights: normalize(w),
		}
	}

	weights := normalize(w)
	acc := newAccumulator()

	acc.add(Canonical(text.Category), text.Confidence*weights.Text)
	for _, img := range images {
		acc.add(Canonical(img.Category), img.Confidence*weights.Image/float64(len(images)))
	}

	bestCategory, bestScore := acc.best()

	restricted := text.IsRestricted
	for _, img := range images {
		restricted = restricted || img.IsRestricted
	}

	return Result{
		Prediction: domain.Prediction{
			Category:     bestCategory,
			Confidence:   bestScore,
			IsRestricted: restricted,
			Source:       domain.SourceFused,
		},
		TopCategories:  acc.top(5),
		AppliedWeights: weights,
	}
}

// FuseUniform merges an arbitrary list of predictions with optional
// per-prediction weights. Missing or all-zero weights fall back to a uniform
// split. Used for multi-classifier ensembles where no modality structure
// applies.
func FuseUniform(preds []domain.Prediction, weights []float64) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = errorResult(fmt.Sprintf("fusion failed: %v", r))
		}
	}()

	if len(preds) == 0 {
		return Result{Prediction: domain.Prediction{
			Category: domain.CategoryUnknown,
			Source:   domain.SourceFused,
		}}
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	uniform := len(weights) != len(preds) || total <= 0

	acc := newAccumulator()
	restricted := false
	for i, p := range preds {
		w := 1.0 / float64(len(preds))
		if !uniform {
			w = weights[i] / total
		}
		acc.add(Canonical(p.Category), p.Confidence*w)
		restricted = restricted || p.IsRestricted
	}

	bestCategory, bestScore := acc.best()
	return Result{
		Prediction: domain.Prediction{
			Category:     bestCategory,
			Confidence:   bestScore,
			IsRestricted: restricted,
			Source:       domain.SourceFused,
		},
		TopCategories: acc.top(5),
	}
}

func errorResult(msg string) Result {
	return Result{Prediction: domain.Prediction{
		Category: domain.CategoryError,
		Source:   domain.SourceFused,
		Err:      msg,
	}}
}

func normalize(w Weights) Weights {
	total := w.Text + w.Image
	if total <= 0 {
		return Weights{Text: 0.5, Image: 0.5}
	}
	return Weights{Text: w.Text / total, Image: w.Image / total}
}

func rankImages(images []domain.Prediction) []Score {
	acc := newAccumulator()
	for _, img := range images {
		cat := Canonical(img.Category)
		if img.Confidence > acc.scores[cat] || !acc.seen(cat) {
			acc.set(cat, img.Confidence)
		}
	}
	return acc.top(5)
}

// accumulator tracks per-category scores while remembering insertion order so
// ties resolve deterministically.
type accumulator struct {
	scores map[string]float64
	order  []string
}

func newAccumulator() *accumulator {
	return &accumulator{scores: make(map[string]float64)}
}

func (a *accumulator) seen(category string) bool {
	_, ok := a.scores[category]
	return ok
}

func (a *accumulator) add(category string, score float64) {
	if !a.seen(category) {
		a.order = append(a.order, category)
	}
	a.scores[category] += score
}

func (a *accumulator) set(category string, score float64) {
	if !a.seen(category) {
		a.order = append(a.order, category)
	}
	a.scores[category] = score
}

// best returns the highest-scoring category; on ties the earliest-inserted
// category wins.
func (a *accumulator) best() (string, float64) {
	if len(a.order) == 0 {
		return domain.CategoryUnknown, 0
	}
	bestCat := a.order[0]
	bestScore := a.scores[bestCat]
	for _, cat := range a.order[1:] {
		if a.scores[cat] > bestScore {
			bestCat, bestScore = cat, a.scores[cat]
		}
	}
	return bestCat, bestScore
}

func (a *accumulator) top(n int) []Score {
	ranked := make([]Score, 0, len(a.order))
	for _, cat := range a.order {
		ranked = append(ranked, Score{Category: cat, Score: a.scores[cat]})
	}
	// Stable sort keeps insertion order between equal scores.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
