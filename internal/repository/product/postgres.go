package product

import (
	"context"
	"encoding/json"
	"errors"
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

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, name, description, price::text, offer_price::text, images, category, in_stock, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

// GetByID treats malformed ids the same as unknown ones.
func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		r.logger.Printf("product repo: get id=%q malformed", id)
		return nil, domain.ErrNotFound
	}
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	desc, err := json.Marshal(nonNil(product.Description))
	if err != nil {
		return nil, err
	}
	images, err := json.Marshal(nonNil(product.Images))
	if err != nil {
		return nil, err
	}
	q := `
INSERT INTO products (id, name, description, price, offer_price, images, category, in_stock)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4::numeric, $5::numeric, $6, $7, $8)
ON CONFLICT (name, category) DO UPDATE SET
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    offer_price = EXCLUDED.offer_price,
    images = EXCLUDED.images,
    in_stock = EXCLUDED.in_stock
RETURNING ` + productColumns
	res, err := scanProduct(r.pool.QueryRow(ctx, q,
		product.ID,
		product.Name,
		desc,
		product.Price.String(),
		product.OfferPrice.String(),
		images,
		product.Category,
		product.InStock,
	))
	if err != nil {
		r.logger.Printf("product repo: upsert name=%s category=%s error=%v", product.Name, product.Category, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted name=%s id=%s", res.Name, res.ID)
	return res, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p                 domain.Product
		desc, images      []byte
		price, offerPrice string
	)
	if err := row.Scan(&p.ID, &p.Name, &desc, &price, &offerPrice, &images, &p.Category, &p.InStock, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	if p.OfferPrice, err = decimal.NewFromString(offerPrice); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(desc, &p.Description); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, err
	}
	return &p, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
