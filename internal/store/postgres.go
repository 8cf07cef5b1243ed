package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// Postgres stores one JSONB snapshot row per account key.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps a connection pool. Call EnsureSchema once at startup.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the snapshot table if it does not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analytics_snapshots (
			account_key TEXT PRIMARY KEY,
			snapshot    JSONB NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Postgres) Load(ctx context.Context, account string) (analytics.Snapshot, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT snapshot FROM analytics_snapshots WHERE account_key = $1`,
		account,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return analytics.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snap analytics.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return analytics.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (s *Postgres) Save(ctx context.Context, account string, snap analytics.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO analytics_snapshots (account_key, snapshot, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (account_key)
		DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()`,
		account, raw)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *Postgres) Reset(ctx context.Context, account string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM analytics_snapshots WHERE account_key = $1`, account)
	if err != nil {
		return fmt.Errorf("reset snapshot: %w", err)
	}
	return nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
