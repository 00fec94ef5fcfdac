package policy

// Severity grades how serious a restricted-category violation is. It drives
// the suggested follow-up action surfaced with rejections.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Config is the process-wide moderation policy. It is loaded once at startup,
// may be hot-reloaded through the Store, and is treated as read-only for the
// duration of a decision.
type Config struct {
	RestrictedCategories []string          `json:"restricted_categories"`
	HighRiskCategories   []string          `json:"high_risk_categories"`
	MediumRiskCategories []string          `json:"medium_risk_categories"`
	BusinessDomains      []string          `json:"business_domains"`
	ConfidenceThreshold  float64           `json:"confidence_threshold"`
	WarningMessages      map[string]string `json:"warning_messages"`
}

// GenericWarning is returned for restricted categories without a registered
// warning message.
const GenericWarning = "This content violates our platform policies."

// IsRestricted reports whether the category is blocked for all businesses.
func (c *Config) IsRestricted(category string) bool {
	for _, r := range c.RestrictedCategories {
		if r == category {
			return true
		}
	}
	return false
}

// SeverityOf grades a category by its risk tier. Restricted categories outside
// the named tiers default to medium; everything else is low.
func (c *Config) SeverityOf(category string) Severity {
	for _, r := range c.HighRiskCategories {
		if r == category {
			return SeverityCritical
		}
	}
	for _, r := range c.MediumRiskCategories {
		if r == category {
			return SeverityHigh
		}
	}
	if c.IsRestricted(category) {
		return SeverityMedium
	}
	return SeverityLow
}

// Warning returns the category-specific warning message, falling back to the
// generic one when none is registered.
func (c *Config) Warning(category string) string {
	if msg, ok := c.WarningMessages[category]; ok {
		return msg
	}
	return GenericWarning
}

// Default returns the built-in policy used when no policy file is configured.
func Default() *Config {
	return &Config{
		RestrictedCategories: []string{
			"weapons", "explosives", "drugs", "prescription_medicine",
			"alcohol", "tobacco", "counterfeit", "human_organs",
			"wildlife", "harmful_chemicals", "surveillance",
			"hacking_tools", "gambling", "adult_content",
			"hate_speech", "pyramid_schemes", "illegal_services",
		},
		HighRiskCategories: []string{
			"weapons", "drugs", "adult_content", "counterfeit",
		},
		MediumRiskCategories: []string{
			"prescription_medicine", "alcohol", "tobacco",
			"surveillance", "gambling",
		},
		BusinessDomains: []string{
			"food", "tech", "education", "healthcare", "finance",
			"fashion", "electronics", "automotive", "real_estate",
			"entertainment", "sports", "travel", "beauty", "home",
		},
		ConfidenceThreshold: 0.15,
		WarningMessages: map[string]string{
			"weapons":               "This content is related to Weapons and Firearms, which violates our marketplace safety policy.",
			"drugs":                 "This content is related to Drugs and Narcotics, which is prohibited on our platform.",
			"adult_content":         "Adult content is not allowed on our business platform.",
			"counterfeit":           "Counterfeit goods are illegal and strictly prohibited.",
			"prescription_medicine": "Selling prescription medicines requires special licenses and is restricted.",
			"harmful_chemicals":     "Harmful chemicals require special licenses and safety certifications.",
			"surveillance":          "Surveillance devices may violate privacy laws.",
			"gambling":              "Gambling-related content is restricted in many jurisdictions.",
			"hate_speech":           "Hate speech content violates our community guidelines.",
			"wildlife":              "Trade of protected wildlife is illegal and violates conservation laws.",
		},
	}
}
