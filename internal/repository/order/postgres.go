package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `id::text, user_id, items, amount::text, address, status, payment_type, is_paid, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if len(o.Items) == 0 {
		return nil, fmt.Errorf("order repo: create: %w", domain.ErrInvalidRequest)
	}
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}
	addrJSON, err := json.Marshal(o.Address)
	if err != nil {
		return nil, err
	}
	status := o.Status
	if status == "" {
		status = domain.DefaultOrderStatus
	}

	q := `
INSERT INTO orders (user_id, items, amount, address, status, payment_type, is_paid)
VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)
RETURNING ` + orderColumns
	created, err := scanOrder(r.pool.QueryRow(ctx, q,
		o.UserID,
		itemsJSON,
		o.Amount.String(),
		addrJSON,
		status,
		string(o.PaymentType),
		o.IsPaid,
	))
	if err != nil {
		r.logger.Printf("order repo: create user_id=%s error=%v", o.UserID, err)
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s user_id=%s payment_type=%s amount=%s", created.ID, created.UserID, created.PaymentType, created.Amount)
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) MarkPaid(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET is_paid = true, updated_at = now()
WHERE id = $1 AND is_paid = false
`, id)
	if err != nil {
		r.logger.Printf("order repo: mark paid id=%s error=%v", id, err)
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("order repo: delete id=%s error=%v", id, err)
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1
`, id, status)
	if err != nil {
		r.logger.Printf("order repo: update status id=%s error=%v", id, err)
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) ListVisible(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE ($1 = '' OR user_id = $1)
  AND (payment_type = 'COD' OR is_paid = true)
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%q error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                   domain.Order
		itemsJSON, addrJSON []byte
		amount, paymentType string
	)
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&itemsJSON,
		&amount,
		&addrJSON,
		&o.Status,
		&paymentType,
		&o.IsPaid,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if o.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("decode amount id=%s: %w", o.ID, err)
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items id=%s: %w", o.ID, err)
	}
	if err := json.Unmarshal(addrJSON, &o.Address); err != nil {
		return nil, fmt.Errorf("decode address id=%s: %w", o.ID, err)
	}
	o.PaymentType = domain.PaymentType(paymentType)
	return &o, nil
}

// Ids come back from gateway metadata and request bodies; anything that is not a uuid cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
