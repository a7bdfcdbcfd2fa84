package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog read model. Prices are in major currency units.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description []string        `json:"description"`
	Price       decimal.Decimal `json:"price"`
	OfferPrice  decimal.Decimal `json:"offerPrice"`
	Images      []string        `json:"image"`
	Category    string          `json:"category"`
	InStock     bool            `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func init() {
	// Clients read prices and totals as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}
