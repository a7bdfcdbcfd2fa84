// Package webhookevent records gateway events that have been fully reconciled.
package webhookevent

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	// Record is a no-op for an event id that is already stored.
	Record(ctx context.Context, eventID, eventType string) error
}

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Seen(ctx context.Context, eventID string) (bool, error) {
	var seen bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM webhook_events WHERE event_id = $1)`, eventID).Scan(&seen)
	return seen, err
}

func (r *postgresRepo) Record(ctx context.Context, eventID, eventType string) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO webhook_events (event_id, event_type)
VALUES ($1, $2)
ON CONFLICT (event_id) DO NOTHING
`, eventID, eventType)
	return err
}
