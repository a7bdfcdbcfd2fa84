package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"storefront/internal/domain"
)

type Stripe struct {
	api           *client.API
	webhookSecret string
}

// NewStripe builds the Stripe gateway. A nil backends uses the live Stripe endpoints.
func NewStripe(secretKey, webhookSecret string, backends *stripe.Backends) *Stripe {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &Stripe{api: api, webhookSecret: webhookSecret}
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	for _, item := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	cs, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %v", domain.ErrGateway, err)
	}
	return &Session{ID: cs.ID, URL: cs.URL, Metadata: cs.Metadata}, nil
}

func (s *Stripe) ListSessionsByPaymentIntent(ctx context.Context, paymentIntentID string) ([]Session, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx

	var sessions []Session
	iter := s.api.CheckoutSessions.List(params)
	for iter.Next() {
		cs := iter.CheckoutSession()
		sessions = append(sessions, Session{ID: cs.ID, URL: cs.URL, Metadata: cs.Metadata})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: list checkout sessions payment_intent=%s: %v", domain.ErrGateway, paymentIntentID, err)
	}
	return sessions, nil
}

func (s *Stripe) VerifyWebhook(payload []byte, sigHeader string) (Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, sigHeader, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", domain.ErrSignature, err)
	}

	out := Event{ID: evt.ID, Type: string(evt.Type)}
	if strings.HasPrefix(out.Type, "payment_intent.") && evt.Data != nil {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
			return Event{}, fmt.Errorf("decode payment intent event=%s: %w", evt.ID, err)
		}
		out.PaymentIntentID = pi.ID
	}
	return out, nil
}
