package address

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists shipping addresses. Addresses are never updated once created.
type Repository interface {
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
}
