package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher records decision events. Persistence goes through the store so
// tests can swap sinks easily; broker delivery is optional and best-effort.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

// NewPublisher builds a publisher. sink may be nil when no broker is
// configured.
func NewPublisher(store Store, sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, sink: sink, logger: logger}
}

// Emit assigns identity and time to the event, persists it, and hands it to
// the sink. Store failures are returned; sink failures are the sink's problem.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := p.store.Append(ctx, event); err != nil {
		return err
	}

	if p.sink != nil {
		p.sink.Publish(ctx, event)
	}
	return nil
}

// List returns the audit trail for one business.
func (p *Publisher) List(ctx context.Context, businessID string) ([]Event, error) {
	return p.store.ListByBusiness(ctx, businessID)
}
