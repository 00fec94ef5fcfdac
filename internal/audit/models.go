package audit

import (
	"context"
	"time"

	dErrors "contentguard/pkg/domainerrors"
)

// Event captures one authorization decision for the audit trail. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	RequestID        string    `json:"request_id,omitempty"`
	BusinessID       string    `json:"business_id,omitempty"`
	RegisteredDomain string    `json:"registered_domain"`
	DetectedCategory string    `json:"detected_category"`
	Status           string    `json:"status"`
	Reason           string    `json:"reason"`
	Confidence       float64   `json:"confidence"`
}

// ErrNotFound is returned when no events exist for the requested business.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "no audit events found")

// Store persists decision events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByBusiness(ctx context.Context, businessID string) ([]Event, error)
}

// Sink receives events for out-of-process delivery (message broker, SIEM).
// Sinks are best-effort: a delivery failure never fails the decision.
type Sink interface {
	Publish(ctx context.Context, event Event)
	Close()
}
