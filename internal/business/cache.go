package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"contentguard/internal/business/metrics"
)

// CachedStore is a redis read-through decorator over another Store. Profiles
// change rarely (onboarding events), so a short TTL keeps staleness bounded
// without a invalidation channel.
type CachedStore struct {
	inner   Store
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewCachedStore wraps inner with a redis cache.
func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration, m *metrics.Metrics) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl, metrics: m}
}

func cacheKey(id string) string {
	return "contentguard:business:" + id
}

func (s *CachedStore) Get(ctx context.Context, id string) (Profile, error) {
	data, err := s.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var p Profile
		if err := json.Unmarshal(data, &p); err == nil {
			s.metrics.IncrementCacheLookup("hit")
			return p, nil
		}
		// Unreadable cache entry: fall through to the source of truth.
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not take profile lookups with it.
		s.metrics.IncrementCacheLookup("error")
	}
	s.metrics.IncrementCacheLookup("miss")

	p, err := s.inner.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	if data, err := json.Marshal(p); err == nil {
		_ = s.client.Set(ctx, cacheKey(id), data, s.ttl).Err()
	}
	return p, nil
}

func (s *CachedStore) Put(ctx context.Context, profile Profile) error {
	if err := s.inner.Put(ctx, profile); err != nil {
		return err
	}
	if err := s.client.Del(ctx, cacheKey(profile.ID)).Err(); err != nil {
		return fmt.Errorf("invalidate business profile cache: %w", err)
	}
	return nil
}

func (s *CachedStore) List(ctx context.Context) ([]Profile, error) {
	return s.inner.List(ctx)
}
