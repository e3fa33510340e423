package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolAdapter adapts a pgx pool to the minimal Ping interface used by
// readiness checks, keeping the HTTP layer free of a pgx dependency.
type PoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPoolAdapter wraps the given pool.
func NewPoolAdapter(pool *pgxpool.Pool) *PoolAdapter {
	return &PoolAdapter{pool: pool}
}

// Ping checks database connectivity.
func (a *PoolAdapter) Ping(ctx context.Context) error {
	return a.pool.Ping(ctx)
}
