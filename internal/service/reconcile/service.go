// Package reconcile applies verified payment webhook events to the order ledger.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"log"

	"storefront/internal/events"
	"storefront/internal/payment"
)

type Outcome string

const (
	OutcomePaid      Outcome = "paid"
	OutcomeDeleted   Outcome = "deleted"
	OutcomeNoop      Outcome = "noop"
	OutcomeNoSession Outcome = "no_session"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

type gateway interface {
	VerifyWebhook(payload []byte, sigHeader string) (payment.Event, error)
	ListSessionsByPaymentIntent(ctx context.Context, paymentIntentID string) ([]payment.Session, error)
}

type orderStore interface {
	MarkPaid(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type cartStore interface {
	Clear(ctx context.Context, userID string) error
}

type eventLog interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Record(ctx context.Context, eventID, eventType string) error
}

type Service struct {
	gateway   gateway
	orders    orderStore
	carts     cartStore
	processed eventLog
	publisher events.Publisher
	logger    *log.Logger
}

func New(gw gateway, orders orderStore, carts cartStore, processed eventLog, publisher events.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{gateway: gw, orders: orders, carts: carts, processed: processed, publisher: publisher, logger: logger}
}

// Process verifies payload against sigHeader and applies the event. Errors wrapping
// domain.ErrSignature mean nothing was touched and the delivery should be refused.
func (s *Service) Process(ctx context.Context, payload []byte, sigHeader string) (payment.Event, Outcome, error) {
	evt, err := s.gateway.VerifyWebhook(payload, sigHeader)
	if err != nil {
		return payment.Event{}, "", err
	}
	outcome, err := s.Apply(ctx, evt)
	return evt, outcome, err
}

// Apply is safe to repeat for the same event.
func (s *Service) Apply(ctx context.Context, evt payment.Event) (Outcome, error) {
	if evt.Type != payment.EventPaymentSucceeded && evt.Type != payment.EventPaymentFailed {
		s.logger.Printf("reconcile: unhandled event type=%s id=%s", evt.Type, evt.ID)
		return OutcomeIgnored, nil
	}

	if evt.ID != "" {
		seen, err := s.processed.Seen(ctx, evt.ID)
		if err != nil {
			return "", fmt.Errorf("reconcile: lookup event %s: %w", evt.ID, err)
		}
		if seen {
			s.logger.Printf("reconcile: duplicate event id=%s type=%s", evt.ID, evt.Type)
			return OutcomeDuplicate, nil
		}
	}

	sessions, err := s.gateway.ListSessionsByPaymentIntent(ctx, evt.PaymentIntentID)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		s.logger.Printf("reconcile: no session payment_intent=%s event=%s", evt.PaymentIntentID, evt.ID)
		return OutcomeNoSession, s.record(ctx, evt)
	}
	orderID := sessions[0].Metadata[payment.MetadataOrderID]
	userID := sessions[0].Metadata[payment.MetadataUserID]

	var outcome Outcome
	switch evt.Type {
	case payment.EventPaymentSucceeded:
		outcome, err = s.markPaid(ctx, orderID, userID)
	case payment.EventPaymentFailed:
		outcome, err = s.remove(ctx, orderID, userID)
	}
	if err != nil {
		return "", err
	}
	return outcome, s.record(ctx, evt)
}

func (s *Service) markPaid(ctx context.Context, orderID, userID string) (Outcome, error) {
	changed, err := s.orders.MarkPaid(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("reconcile: mark paid order %s: %w", orderID, err)
	}
	if userID != "" {
		if err := s.carts.Clear(ctx, userID); err != nil {
			return "", fmt.Errorf("reconcile: clear cart user %s: %w", userID, err)
		}
	}
	if !changed {
		s.logger.Printf("reconcile: order_id=%s already paid or missing", orderID)
		return OutcomeNoop, nil
	}
	s.logger.Printf("reconcile: order_id=%s marked paid", orderID)
	s.publish(ctx, events.OrderPaid, orderID, userID)
	return OutcomePaid, nil
}

func (s *Service) remove(ctx context.Context, orderID, userID string) (Outcome, error) {
	removed, err := s.orders.Delete(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("reconcile: delete order %s: %w", orderID, err)
	}
	if !removed {
		return OutcomeNoop, nil
	}
	s.logger.Printf("reconcile: order_id=%s deleted after failed payment", orderID)
	s.publish(ctx, events.OrderDeleted, orderID, userID)
	return OutcomeDeleted, nil
}

func (s *Service) record(ctx context.Context, evt payment.Event) error {
	if evt.ID == "" {
		return nil
	}
	if err := s.processed.Record(ctx, evt.ID, evt.Type); err != nil {
		return fmt.Errorf("reconcile: record event %s: %w", evt.ID, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, typ, orderID, userID string) {
	if err := s.publisher.Publish(ctx, events.OrderEvent{Type: typ, OrderID: orderID, UserID: userID}); err != nil {
		s.logger.Printf("reconcile: publish %s order_id=%s error=%v", typ, orderID, err)
	}
}
