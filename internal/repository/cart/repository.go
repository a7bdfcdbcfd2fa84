package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores one cart snapshot per user.
type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Replace(ctx context.Context, userID string, items map[string]int) (*domain.Cart, error)
	// Clear empties the snapshot. Clearing an absent or already empty cart succeeds.
	Clear(ctx context.Context, userID string) error
}
