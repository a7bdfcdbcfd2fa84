package order

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
)

type ledger interface {
	ListVisible(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
}

// Service answers order listings. Unpaid online orders never appear in them.
type Service struct {
	orders ledger
	logger *log.Logger
}

func New(orders ledger, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, logger: logger}
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.orders.ListVisible(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListVisible(ctx, "")
}

// UpdateStatus sets the fulfillment label. An unknown order id is not an error.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) error {
	orderID = strings.TrimSpace(orderID)
	status = strings.TrimSpace(status)
	if orderID == "" || status == "" {
		return domain.ErrInvalidRequest
	}
	updated, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return fmt.Errorf("order: update status %s: %w", orderID, err)
	}
	if !updated {
		s.logger.Printf("order: update status order_id=%s not found", orderID)
	}
	return nil
}
