package category

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const categoryColumns = `id::text, name, image, bg_color, created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return r.one(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, image, bg_color)
VALUES ($1, $2, $3)
RETURNING ` + categoryColumns
	return r.one(ctx, q, c.Name, c.Image, c.BgColor)
}

// Update overwrites only the non-empty fields of c.
func (r *postgresRepo) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if _, err := uuid.Parse(c.ID); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `
UPDATE categories
SET name = COALESCE(NULLIF($2, ''), name),
    image = COALESCE(NULLIF($3, ''), image),
    bg_color = COALESCE(NULLIF($4, ''), bg_color),
    updated_at = now()
WHERE id = $1
RETURNING ` + categoryColumns
	return r.one(ctx, q, c.ID, c.Name, c.Image, c.BgColor)
}

// Delete of a missing category is not an error.
func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

func (r *postgresRepo) one(ctx context.Context, q string, args ...interface{}) (*domain.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return c, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Image, &c.BgColor, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
