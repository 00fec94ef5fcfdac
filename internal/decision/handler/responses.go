package handler

import (
	"contentguard/internal/decision"
)

// DecisionResponse is the HTTP response for POST /analyze and
// POST /decision/evaluate. Field names are a stable contract with callers.
type DecisionResponse struct {
	Status                     string   `json:"status"`
	Reason                     string   `json:"reason"`
	DetectedCategory           string   `json:"detected_category"`
	ConfidenceScore            float64  `json:"confidence_score"`
	DomainMatch                bool     `json:"domain_match"`
	IsAllowedInBusinessDomains bool     `json:"is_allowed_in_business_domains"`
	IsRegisteredDomainValid    bool     `json:"is_registered_domain_valid"`
	BusinessAllowedDomains     []string `json:"business_allowed_domains"`
	Severity                   string   `json:"severity,omitempty"`
	Warning                    string   `json:"warning,omitempty"`
}

// FromResult converts a decision result to its HTTP shape.
func FromResult(res decision.Result) *DecisionResponse {
	allowed := res.BusinessAllowedDomains
	if allowed == nil {
		allowed = []string{}
	}
	return &DecisionResponse{
		Status:                     string(res.Status),
		Reason:                     res.Reason,
		DetectedCategory:           res.DetectedCategory,
		ConfidenceScore:            res.Confidence,
		DomainMatch:                res.DomainMatch,
		IsAllowedInBusinessDomains: res.IsAllowedInBusinessDomains,
		IsRegisteredDomainValid:    res.IsRegisteredDomainValid,
		BusinessAllowedDomains:     allowed,
		Severity:                   string(res.Severity),
		Warning:                    res.Warning,
	}
}
