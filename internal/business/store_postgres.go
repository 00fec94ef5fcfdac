package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"contentguard/internal/business/metrics"
)

// PostgresStore persists business profiles in PostgreSQL.
type PostgresStore struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// NewPostgresStore constructs a PostgreSQL-backed profile store.
func NewPostgresStore(db *sql.DB, m *metrics.Metrics) *PostgresStore {
	return &PostgresStore{db: db, metrics: m}
}

// Schema is the DDL for the business_profiles table. Applied by migrations in
// deployment; exposed here so integration tests can create the table.
const Schema = `
CREATE TABLE IF NOT EXISTS business_profiles (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL DEFAULT '',
    business_type     TEXT NOT NULL,
    registered_domain TEXT NOT NULL,
    allowed_domains   TEXT[] NOT NULL,
    verified          BOOLEAN NOT NULL DEFAULT FALSE,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func (s *PostgresStore) Get(ctx context.Context, id string) (Profile, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStoreLatency("get", time.Since(start)) }()

	var p Profile
	var domains pq.StringArray
	var typ string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, business_type, registered_domain, allowed_domains, verified, created_at
		FROM business_profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &typ, &p.RegisteredDomain, &domains, &p.Verified, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("get business profile: %w", err)
	}
	p.Type = Type(typ)
	p.AllowedDomains = []string(domains)
	return p, nil
}

func (s *PostgresStore) Put(ctx context.Context, profile Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	start := time.Now()
	defer func() { s.metrics.ObserveStoreLatency("put", time.Since(start)) }()

	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO business_profiles (id, name, business_type, registered_domain, allowed_domains, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			business_type = EXCLUDED.business_type,
			registered_domain = EXCLUDED.registered_domain,
			allowed_domains = EXCLUDED.allowed_domains,
			verified = EXCLUDED.verified`,
		profile.ID, profile.Name, string(profile.Type), profile.RegisteredDomain,
		pq.Array(profile.AllowedDomains), profile.Verified, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("put business profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Profile, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStoreLatency("list", time.Since(start)) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, business_type, registered_domain, allowed_domains, verified, created_at
		FROM business_profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list business profiles: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		var domains pq.StringArray
		var typ string
		if err := rows.Scan(&p.ID, &p.Name, &typ, &p.RegisteredDomain, &domains, &p.Verified, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan business profile: %w", err)
		}
		p.Type = Type(typ)
		p.AllowedDomains = []string(domains)
		out = append(out, p)
	}
	return out, rows.Err()
}
