package business

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps profiles in memory. It favors clarity over performance and
// backs tests and single-node deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return Profile{}, ErrNotFound
}

func (s *MemoryStore) Put(_ context.Context, profile Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Seed loads the demo onboarding profiles so a fresh deployment has businesses
// to evaluate against.
func (s *MemoryStore) Seed(ctx context.Context) error {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	profiles := []Profile{
		{
			ID:               "B001",
			Name:             "Tech Solutions Inc",
			Type:             TypeSingleDomain,
			RegisteredDomain: "tech",
			AllowedDomains:   []string{"tech"},
			Verified:         true,
			CreatedAt:        created,
		},
		{
			ID:               "B002",
			Name:             "Food Paradise",
			Type:             TypeSingleDomain,
			RegisteredDomain: "food",
			AllowedDomains:   []string{"food"},
			Verified:         true,
			CreatedAt:        created,
		},
		{
			ID:               "B003",
			Name:             "Marketplace Hub",
			Type:             TypeMarketplace,
			RegisteredDomain: "tech",
			AllowedDomains:   []string{"tech", "fashion", "electronics", "home"},
			Verified:         true,
			CreatedAt:        created,
		},
		{
			ID:               "B057",
			Name:             "Bright Minds Academy",
			Type:             TypeSingleDomain,
			RegisteredDomain: "education",
			AllowedDomains:   []string{"education"},
			Verified:         true,
			CreatedAt:        created,
		},
		{
			ID:               "M001",
			Name:             "Omni Retail Group",
			Type:             TypeMarketplace,
			RegisteredDomain: "electronics",
			AllowedDomains:   []string{"electronics", "beauty", "fashion", "home"},
			Verified:         true,
			CreatedAt:        created,
		},
	}
	for _, p := range profiles {
		if err := s.Put(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
