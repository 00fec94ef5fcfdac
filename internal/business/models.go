package business

import (
	"fmt"
	"strings"
	"time"
)

// Type classifies how a business is allowed to post across domains.
type Type string

const (
	// TypeSingleDomain businesses post only in their registered domain.
	TypeSingleDomain Type = "single_domain"
	// TypeMarketplace businesses operate across a fixed allowed-domain set.
	TypeMarketplace Type = "marketplace"
	// TypeMultiDomain is a legacy alias kept for profiles migrated from the
	// earlier onboarding flow; enforcement treats it like a marketplace.
	TypeMultiDomain Type = "multi_domain"
)

// Profile is a business's domain-registration snapshot. Profiles are created
// and updated by the onboarding service; the decision engine only reads them.
type Profile struct {
	ID               string
	Name             string
	Type             Type
	RegisteredDomain string
	// AllowedDomains preserves onboarding order; comparisons are
	// case-insensitive.
	AllowedDomains []string
	Verified       bool
	CreatedAt      time.Time
}

// Validate enforces profile invariants before a store accepts a write.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("business id is required")
	}
	if len(p.AllowedDomains) == 0 {
		return fmt.Errorf("business %s: allowed_domains must not be empty", p.ID)
	}
	switch p.Type {
	case TypeSingleDomain:
		if len(p.AllowedDomains) != 1 || !strings.EqualFold(p.AllowedDomains[0], p.RegisteredDomain) {
			return fmt.Errorf("business %s: single-domain profile must allow exactly its registered domain", p.ID)
		}
	case TypeMarketplace, TypeMultiDomain:
	default:
		return fmt.Errorf("business %s: unknown business type %q", p.ID, p.Type)
	}
	return nil
}

// AllowsDomain reports whether the profile authorizes posting registrations
// under the given domain. Comparison is case-insensitive.
func (p Profile) AllowsDomain(domain string) bool {
	for _, d := range p.AllowedDomains {
		if strings.EqualFold(d, domain) {
			return true
		}
	}
	return false
}
