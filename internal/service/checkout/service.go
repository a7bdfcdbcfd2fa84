// Package checkout turns a submitted cart into a persisted order and, for online payment,
// a hosted checkout session correlated with that order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/payment"
	"storefront/internal/service/pricing"
)

type pricer interface {
	Quote(ctx context.Context, items []domain.OrderItem) (pricing.Quote, error)
}

type orderStore interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
}

type sessionCreator interface {
	CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.Session, error)
}

type Config struct {
	Currency      string
	DefaultOrigin string
}

type Service struct {
	pricer    pricer
	orders    orderStore
	gateway   sessionCreator
	publisher events.Publisher
	cfg       Config
	logger    *log.Logger
}

func New(pricer pricer, orders orderStore, gateway sessionCreator, publisher events.Publisher, cfg Config, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	if cfg.Currency == "" {
		cfg.Currency = "inr"
	}
	if cfg.DefaultOrigin == "" {
		cfg.DefaultOrigin = "http://localhost:5173"
	}
	return &Service{pricer: pricer, orders: orders, gateway: gateway, publisher: publisher, cfg: cfg, logger: logger}
}

// PlaceCOD persists a cash-on-delivery order. It is visible in listings immediately.
func (s *Service) PlaceCOD(ctx context.Context, userID string, items []domain.OrderItem, addr *domain.Address) (*domain.Order, error) {
	if err := validate(items, addr); err != nil {
		return nil, err
	}
	quote, err := s.pricer.Quote(ctx, items)
	if err != nil {
		return nil, err
	}
	created, err := s.orders.Create(ctx, domain.Order{
		UserID:      userID,
		Items:       items,
		Amount:      quote.Total,
		Address:     *addr,
		PaymentType: domain.PaymentCOD,
		IsPaid:      true,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderPlaced, created)
	return created, nil
}

// PlaceOnline persists an unpaid order and opens a checkout session for it, returning the
// redirect URL. A gateway failure leaves the pending order in place for the webhook flow.
func (s *Service) PlaceOnline(ctx context.Context, userID string, items []domain.OrderItem, addr *domain.Address, origin string) (string, error) {
	if err := validate(items, addr); err != nil {
		return "", err
	}
	quote, err := s.pricer.Quote(ctx, items)
	if err != nil {
		return "", err
	}
	created, err := s.orders.Create(ctx, domain.Order{
		UserID:      userID,
		Items:       items,
		Amount:      quote.Total,
		Address:     *addr,
		PaymentType: domain.PaymentOnline,
		IsPaid:      false,
	})
	if err != nil {
		return "", err
	}
	s.publish(ctx, events.OrderPlaced, created)

	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		origin = s.cfg.DefaultOrigin
	}
	req := payment.CheckoutRequest{
		Currency:   s.cfg.Currency,
		SuccessURL: origin + "/loader?next=my-orders",
		CancelURL:  origin + "/cart",
		Metadata: map[string]string{
			payment.MetadataOrderID: created.ID,
			payment.MetadataUserID:  userID,
		},
	}
	for _, line := range quote.Lines {
		req.LineItems = append(req.LineItems, payment.LineItem{
			Name:       line.Product.Name,
			UnitAmount: pricing.GatewayUnitAmount(line.Product.OfferPrice),
			Quantity:   int64(line.Quantity),
		})
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.logger.Printf("checkout: session order_id=%s user_id=%s error=%v", created.ID, userID, err)
		if !errors.Is(err, domain.ErrGateway) {
			err = fmt.Errorf("%w: %v", domain.ErrGateway, err)
		}
		return "", fmt.Errorf("checkout: order %s: %w", created.ID, err)
	}
	s.logger.Printf("checkout: session order_id=%s session_id=%s", created.ID, sess.ID)
	return sess.URL, nil
}

func (s *Service) publish(ctx context.Context, typ string, o *domain.Order) {
	err := s.publisher.Publish(ctx, events.OrderEvent{
		Type:        typ,
		OrderID:     o.ID,
		UserID:      o.UserID,
		PaymentType: string(o.PaymentType),
		Amount:      o.Amount.String(),
	})
	if err != nil {
		s.logger.Printf("checkout: publish %s order_id=%s error=%v", typ, o.ID, err)
	}
}

func validate(items []domain.OrderItem, addr *domain.Address) error {
	if addr == nil || len(items) == 0 {
		return domain.ErrInvalidRequest
	}
	for _, it := range items {
		if strings.TrimSpace(it.ProductID) == "" || it.Quantity <= 0 {
			return domain.ErrInvalidRequest
		}
	}
	return nil
}
