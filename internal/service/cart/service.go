package cart

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Replace(ctx context.Context, userID string, items map[string]int) (*domain.Cart, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.Get(ctx, userID)
}

// Update replaces the user's cart with items. Zero quantities drop the product.
func (s *Service) Update(ctx context.Context, userID string, items map[string]int) (*domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidRequest
	}
	clean := make(map[string]int, len(items))
	for id, qty := range items {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, errors.New("product id required")
		}
		if qty < 0 {
			return nil, errors.New("quantity must not be negative")
		}
		if qty == 0 {
			continue
		}
		if s.productRepo != nil {
			if _, err := s.productRepo.GetByID(ctx, id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, errors.New("product not found")
				}
				return nil, err
			}
		}
		clean[id] = qty
	}
	return s.repo.Replace(ctx, userID, clean)
}
