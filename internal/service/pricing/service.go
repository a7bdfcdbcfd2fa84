// Package pricing derives order totals and gateway unit amounts from current catalog prices.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"storefront/internal/domain"
)

var (
	taxRate      = decimal.RequireFromString("0.02")
	grossFactor  = decimal.RequireFromString("1.02")
	minorPerUnit = decimal.NewFromInt(100)
)

type Catalog interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Line struct {
	Product  domain.Product
	Quantity int
}

// Quote is a priced cart. Lines keeps request order and omits products the catalog does not know.
type Quote struct {
	Lines    []Line
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

type Service struct {
	catalog       Catalog
	maxConcurrent int
}

func New(catalog Catalog, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	return &Service{catalog: catalog, maxConcurrent: maxConcurrent}
}

func (s *Service) Quote(ctx context.Context, items []domain.OrderItem) (Quote, error) {
	resolved := make([]*domain.Product, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			p, err := s.catalog.GetByID(gctx, items[idx].ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("pricing: get product %s: %w", items[idx].ProductID, err)
			}
			resolved[idx] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Quote{}, err
	}

	q := Quote{Subtotal: decimal.Zero}
	for idx, p := range resolved {
		if p == nil {
			continue
		}
		qty := items[idx].Quantity
		q.Lines = append(q.Lines, Line{Product: *p, Quantity: qty})
		q.Subtotal = q.Subtotal.Add(p.OfferPrice.Mul(decimal.NewFromInt(int64(qty))))
	}
	q.Tax = Tax(q.Subtotal)
	q.Total = q.Subtotal.Add(q.Tax)
	return q, nil
}

// Tax is the 2% surcharge truncated to whole currency units.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRate).Floor()
}

// GatewayUnitAmount is offerPrice*100*1.02 rounded half away from zero to whole minor units.
// It is deliberately independent of Tax and the two can disagree by a minor unit.
func GatewayUnitAmount(offerPrice decimal.Decimal) int64 {
	return offerPrice.Mul(minorPerUnit).Mul(grossFactor).Round(0).IntPart()
}
