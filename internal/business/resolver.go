package business

// Authorization is the outcome of validating a claimed registered domain
// against a business profile.
type Authorization struct {
	// IsRegisteredDomainValid is true when the business may claim the
	// registered domain at all. It says nothing about whether the content
	// matches that domain.
	IsRegisteredDomainValid bool
	// AllowedDomains is the set the validity was checked against, surfaced on
	// rejections so callers see what the business may actually post under.
	AllowedDomains []string
}

// Resolve validates that the caller is allowed to claim registeredDomain.
// Without a profile (anonymous or unregistered caller) the claimed domain is
// trivially valid and becomes the only allowed domain, so enforcement falls
// back to matching content against the caller's own claim. Resolve never
// consults the detected category.
func Resolve(registeredDomain string, profile *Profile) Authorization {
	if profile == nil {
		return Authorization{
			IsRegisteredDomainValid: true,
			AllowedDomains:          []string{registeredDomain},
		}
	}
	return Authorization{
		IsRegisteredDomainValid: profile.AllowsDomain(registeredDomain),
		AllowedDomains:          profile.AllowedDomains,
	}
}
