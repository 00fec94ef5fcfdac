package business

import (
	"context"

	dErrors "contentguard/pkg/domainerrors"
)

// ErrNotFound keeps store-specific 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "business profile not found")

// Store persists business profiles. Interface-driven so the service can run on
// memory, postgres, or a cached composition without rewiring.
type Store interface {
	Get(ctx context.Context, id string) (Profile, error)
	Put(ctx context.Context, profile Profile) error
	List(ctx context.Context) ([]Profile, error)
}
