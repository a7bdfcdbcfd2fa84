package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT user_id, items, updated_at
FROM carts
WHERE user_id = $1
`
	cart, err := scanCart(r.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Cart{UserID: userID, Items: map[string]int{}}, nil
		}
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) Replace(ctx context.Context, userID string, items map[string]int) (*domain.Cart, error) {
	clean := make(map[string]int, len(items))
	for productID, qty := range items {
		if qty > 0 {
			clean[productID] = qty
		}
	}
	data, err := json.Marshal(clean)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO carts (user_id, items, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE
SET items = EXCLUDED.items,
    updated_at = EXCLUDED.updated_at
RETURNING user_id, items, updated_at
`
	return scanCart(r.pool.QueryRow(ctx, q, userID, data))
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO carts (user_id, items, updated_at)
VALUES ($1, '{}'::jsonb, now())
ON CONFLICT (user_id) DO UPDATE
SET items = '{}'::jsonb,
    updated_at = now()
WHERE carts.items <> '{}'::jsonb
`, userID)
	return err
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	var raw []byte
	if err := row.Scan(&cart.UserID, &raw, &cart.UpdatedAt); err != nil {
		return nil, err
	}
	cart.Items = map[string]int{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cart.Items); err != nil {
			return nil, err
		}
	}
	return &cart, nil
}
