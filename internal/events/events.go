// Package events publishes order lifecycle notifications.
package events

import (
	"context"
	"time"
)

const (
	OrderPlaced  = "order.placed"
	OrderPaid    = "order.paid"
	OrderDeleted = "order.deleted"
)

type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	PaymentType string    `json:"paymentType,omitempty"`
	Amount      string    `json:"amount,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, evt OrderEvent) error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }
