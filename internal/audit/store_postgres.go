package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is the DDL for the audit_events table, exposed for integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
    id                UUID PRIMARY KEY,
    ts                TIMESTAMPTZ NOT NULL,
    request_id        TEXT NOT NULL DEFAULT '',
    business_id       TEXT NOT NULL DEFAULT '',
    registered_domain TEXT NOT NULL,
    detected_category TEXT NOT NULL,
    status            TEXT NOT NULL,
    reason            TEXT NOT NULL,
    confidence        DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_events_business_idx ON audit_events (business_id, ts)`

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, ts, request_id, business_id, registered_domain, detected_category, status, reason, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.Timestamp, event.RequestID, event.BusinessID,
		event.RegisteredDomain, event.DetectedCategory, event.Status, event.Reason, event.Confidence,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByBusiness(ctx context.Context, businessID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, request_id, business_id, registered_domain, detected_category, status, reason, confidence
		FROM audit_events WHERE business_id = $1 ORDER BY ts`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.RequestID, &e.BusinessID,
			&e.RegisteredDomain, &e.DetectedCategory, &e.Status, &e.Reason, &e.Confidence); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
