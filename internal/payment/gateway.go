// Package payment talks to the hosted checkout provider.
package payment

import "context"

// Event types the reconciler acts on.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Metadata keys that correlate a checkout session with an order.
const (
	MetadataOrderID = "orderId"
	MetadataUserID  = "userId"
)

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
	ListSessionsByPaymentIntent(ctx context.Context, paymentIntentID string) ([]Session, error)
	VerifyWebhook(payload []byte, sigHeader string) (Event, error)
}

type LineItem struct {
	Name string
	// UnitAmount is in minor currency units.
	UnitAmount int64
	Quantity   int64
}

type CheckoutRequest struct {
	Currency   string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type Session struct {
	ID       string
	URL      string
	Metadata map[string]string
}

// Event is a verified webhook delivery. PaymentIntentID is set for payment_intent.* events.
type Event struct {
	ID              string
	Type            string
	PaymentIntentID string
}
