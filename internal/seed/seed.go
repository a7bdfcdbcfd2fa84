package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

type CategoryWriter interface {
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

var categories = []domain.Category{
	{Name: "Vegetables", Image: "https://cdn.example.com/categories/vegetables.png", BgColor: "#FEF6DA"},
	{Name: "Fruits", Image: "https://cdn.example.com/categories/fruits.png", BgColor: "#FEE0E0"},
	{Name: "Dairy", Image: "https://cdn.example.com/categories/dairy.png", BgColor: "#F0F5DE"},
}

var products = []domain.Product{
	{
		Name:        "Potato 500g",
		Description: []string{"Fresh and organic", "Rich in carbohydrates"},
		Price:       decimal.NewFromInt(25),
		OfferPrice:  decimal.NewFromInt(20),
		Images:      []string{"https://cdn.example.com/products/potato.png"},
		Category:    "Vegetables",
		InStock:     true,
	},
	{
		Name:        "Apple 1kg",
		Description: []string{"Crisp and juicy"},
		Price:       decimal.NewFromInt(120),
		OfferPrice:  decimal.NewFromInt(110),
		Images:      []string{"https://cdn.example.com/products/apple.png"},
		Category:    "Fruits",
		InStock:     true,
	},
	{
		Name:        "Amul Milk 1L",
		Description: []string{"Pure and fresh"},
		Price:       decimal.NewFromInt(60),
		OfferPrice:  decimal.NewFromInt(55),
		Images:      []string{"https://cdn.example.com/products/milk.png"},
		Category:    "Dairy",
		InStock:     true,
	},
}

// Apply inserts demo catalog data for manual testing. Re-running it is safe.
func Apply(ctx context.Context, cats CategoryWriter, prods ProductWriter) error {
	for _, c := range categories {
		if _, err := cats.Create(ctx, c); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
			return fmt.Errorf("create category %s: %w", c.Name, err)
		}
	}
	for _, p := range products {
		if _, err := prods.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	return nil
}
