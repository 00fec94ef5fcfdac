package audit

import (
	"context"
	"sync"
)

// MemoryStore keeps events in memory for tests and single-node deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string][]Event)}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.BusinessID] = append(s.events[event.BusinessID], event)
	return nil
}

func (s *MemoryStore) ListByBusiness(_ context.Context, businessID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[businessID]...), nil
}
