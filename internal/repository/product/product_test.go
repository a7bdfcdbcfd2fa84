package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_UpsertListAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	created, err := repo.Upsert(ctx, domain.Product{
		Name:        "Potato 500g",
		Description: []string{"Fresh and organic"},
		Price:       decimal.NewFromInt(25),
		OfferPrice:  decimal.NewFromInt(20),
		Images:      []string{"https://example.com/potato.png"},
		Category:    "Vegetables",
		InStock:     true,
	})
	if err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected ID set")
	}

	updated, err := repo.Upsert(ctx, domain.Product{
		Name:       "Potato 500g",
		Price:      decimal.NewFromInt(30),
		OfferPrice: decimal.RequireFromString("22.50"),
		Category:   "Vegetables",
	})
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same ID after update")
	}
	if !updated.OfferPrice.Equal(decimal.RequireFromString("22.5")) || updated.InStock {
		t.Fatalf("unexpected updated product %+v", updated)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list))
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Potato 500g" || !got.Price.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected product %+v", got)
	}
}

func TestPostgres_GetByIDMissingOrMalformed(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	for _, id := range []string{"not-a-uuid", "00000000-0000-0000-0000-000000000001"} {
		if _, err := repo.GetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("id %q: expected ErrNotFound, got %v", id, err)
		}
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
