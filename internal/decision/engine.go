package decision

import (
	"fmt"
	"strings"

	"contentguard/internal/business"
	"contentguard/internal/domain"
	"contentguard/internal/policy"
)

// Input groups everything a single decision is evaluated over. Decisions are a
// pure function of an Input plus one policy snapshot.
type Input struct {
	Prediction       domain.Prediction
	RegisteredDomain string
	// Profile is nil for anonymous or unregistered callers; enforcement then
	// falls back to the caller-declared registered domain.
	Profile *business.Profile
	// ContentEmpty marks content that was empty or unusable after
	// preprocessing, which short-circuits evaluation.
	ContentEmpty bool
}

// Result is the full, auditable outcome of one decision. Every branch
// populates the observability fields regardless of final status.
type Result struct {
	Status                     Status
	Reason                     string
	DetectedCategory           string
	Confidence                 float64
	DomainMatch                bool
	IsAllowedInBusinessDomains bool
	IsRegisteredDomainValid    bool
	BusinessAllowedDomains     []string
	Severity                   policy.Severity
	Warning                    string
}

// Options tunes engine behavior that the policy file does not cover.
type Options struct {
	// FallbackConfidenceFirst runs confidence gating before the domain-match
	// check when no business profile was supplied. The historical pipelines
	// disagreed on this order; default false matches the enforcement order
	// the B057/M001 acceptance cases validate.
	FallbackConfidenceFirst bool
}

// Engine applies the ordered authorization rules. It performs no I/O and
// holds no mutable state, so one instance serves all goroutines.
type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Decide evaluates the precedence chain: empty content, undetermined category,
// restricted category, invalid registered domain, domain mismatch, confidence
// gate. The first matching rule fixes the status. Restricted content is
// checked before the confidence gate on purpose: a false rejection is cheaper
// than letting restricted content through on a low-confidence technicality.
//
// Any panic during evaluation is converted to a StatusError result with the
// message preserved; it is never swallowed into an approval.
func (e *Engine) Decide(in Input, pol *policy.Config) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Status:           StatusError,
				Reason:           fmt.Sprintf("decision evaluation failed: %v", r),
				DetectedCategory: in.Prediction.Category,
			}
		}
	}()

	pred := in.Prediction
	auth := business.Resolve(in.RegisteredDomain, in.Profile)
	domainMatch := strings.EqualFold(pred.Category, in.RegisteredDomain)

	res = Result{
		DetectedCategory:           pred.Category,
		Confidence:                 pred.Confidence,
		DomainMatch:                domainMatch,
		IsAllowedInBusinessDomains: domainMatch && auth.IsRegisteredDomainValid,
		IsRegisteredDomainValid:    auth.IsRegisteredDomainValid,
		BusinessAllowedDomains:     auth.AllowedDomains,
		Severity:                   pol.SeverityOf(pred.Category),
	}

	// Rule 1: nothing to classify.
	if in.ContentEmpty {
		res.Status = StatusFlagged
		res.Reason = "Text is too short or contains no meaningful content."
		res.Confidence = 0
		return res
	}

	// An upstream component already failed and handed us an error-shaped
	// prediction; never let that default into an approval.
	if pred.Category == domain.CategoryError {
		res.Status = StatusError
		res.Reason = pred.Err
		if res.Reason == "" {
			res.Reason = "classification produced an error result"
		}
		return res
	}

	// Rule 2: category undetermined.
	if pred.Category == domain.CategoryUnknown {
		res.Status = StatusFlagged
		res.Reason = "Unable to determine content category."
		return res
	}

	// Rule 3: restricted content is rejected for every business, before any
	// confidence check.
	if pred.IsRestricted || pol.IsRestricted(pred.Category) {
		res.Status = StatusRejectedRestricted
		res.Warning = pol.Warning(pred.Category)
		res.Reason = fmt.Sprintf("Content classified as '%s' which is restricted for all businesses. %s",
			pred.Category, res.Warning)
		return res
	}

	// Rule 4: the caller may not claim this registered domain at all.
	if !auth.IsRegisteredDomainValid {
		res.Status = StatusRejectedInvalidDomain
		res.Reason = fmt.Sprintf("Registered domain '%s' is not allowed for business '%s'. Allowed domains: %s.",
			in.RegisteredDomain, in.Profile.ID, strings.Join(auth.AllowedDomains, ", "))
		return res
	}

	// In fallback mode (no profile) the historical pipelines disagreed on
	// whether low confidence should flag before the mismatch rejection.
	if in.Profile == nil && e.opts.FallbackConfidenceFirst {
		if flagged, ok := e.gateConfidence(in, pol, res); ok {
			return flagged
		}
	}

	// Rule 5: content must be posted under the domain it matches, even when
	// the business is also authorized in the detected category.
	if !domainMatch {
		res.Status = StatusRejectedDomainMismatch
		if in.Profile != nil {
			res.Reason = fmt.Sprintf("Content detected as '%s' but business '%s' is only allowed to post in: %s.",
				pred.Category, in.Profile.ID, strings.Join(auth.AllowedDomains, ", "))
		} else {
			res.Reason = fmt.Sprintf("Content detected as '%s' but business registered for '%s'.",
				pred.Category, in.RegisteredDomain)
		}
		return res
	}

	// Rule 6: confidence gate, inclusive on the approve side.
	if flagged, ok := e.gateConfidence(in, pol, res); ok {
		return flagged
	}

	res.Status = StatusApproved
	if in.Profile != nil {
		res.Reason = fmt.Sprintf("Content matches allowed domain '%s' for business '%s'.",
			pred.Category, in.Profile.ID)
	} else {
		res.Reason = fmt.Sprintf("Content matches domain '%s'.", in.RegisteredDomain)
	}
	return res
}

// gateConfidence returns a flagged result when the prediction falls below the
// policy threshold. ok is false when the confidence passes.
func (e *Engine) gateConfidence(in Input, pol *policy.Config, res Result) (Result, bool) {
	if in.Prediction.Confidence >= pol.ConfidenceThreshold {
		return Result{}, false
	}
	res.Status = StatusFlagged
	switch {
	case in.Profile != nil:
		res.Reason = fmt.Sprintf("Content detected as '%s' (allowed for business '%s'), but confidence is very low (%.2f%%).",
			in.Prediction.Category, in.Profile.ID, in.Prediction.Confidence*100)
	case res.DomainMatch:
		res.Reason = fmt.Sprintf("Content matches domain '%s', but confidence is very low (%.2f%%).",
			in.RegisteredDomain, in.Prediction.Confidence*100)
	default:
		res.Reason = fmt.Sprintf("Content detected as '%s', but confidence is very low (%.2f%%).",
			in.Prediction.Category, in.Prediction.Confidence*100)
	}
	return res, true
}
