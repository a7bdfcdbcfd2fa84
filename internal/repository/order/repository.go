package order

import (
	"context"

	"storefront/internal/domain"
)

// Repository is the order ledger.
type Repository interface {
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// MarkPaid sets is_paid. It reports false when the order is missing or already paid.
	MarkPaid(ctx context.Context, id string) (bool, error)
	// Delete reports false when there was nothing to delete.
	Delete(ctx context.Context, id string) (bool, error)
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
	// ListVisible returns COD or paid orders, newest first. An empty userID lists every user.
	ListVisible(ctx context.Context, userID string) ([]domain.Order, error)
}
