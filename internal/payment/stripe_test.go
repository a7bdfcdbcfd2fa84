package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"storefront/internal/domain"
)

const testWebhookSecret = "whsec_test"

func newTestStripe(t *testing.T, handler http.HandlerFunc) *Stripe {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripe("sk_test_123", testWebhookSecret, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestStripe_CreateCheckoutSession(t *testing.T) {
	var form map[string]string
	gw := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_1","object":"checkout.session","url":"https://pay.example/cs_1","metadata":{"orderId":"o1","userId":"u1"}}`))
	})

	sess, err := gw.CreateCheckoutSession(context.Background(), CheckoutRequest{
		Currency:   "inr",
		LineItems:  []LineItem{{Name: "Potato", UnitAmount: 2040, Quantity: 3}},
		SuccessURL: "http://localhost:5173/loader?next=my-orders",
		CancelURL:  "http://localhost:5173/cart",
		Metadata:   map[string]string{MetadataOrderID: "o1", MetadataUserID: "u1"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.URL != "https://pay.example/cs_1" || sess.Metadata[MetadataOrderID] != "o1" {
		t.Fatalf("unexpected session %+v", sess)
	}

	expect := map[string]string{
		"mode": "payment",
		"line_items[0][price_data][currency]":           "inr",
		"line_items[0][price_data][product_data][name]": "Potato",
		"line_items[0][price_data][unit_amount]":        "2040",
		"line_items[0][quantity]":                       "3",
		"metadata[orderId]":                             "o1",
		"metadata[userId]":                              "u1",
		"cancel_url":                                    "http://localhost:5173/cart",
	}
	for k, v := range expect {
		if form[k] != v {
			t.Fatalf("form %s: expected %q, got %q (form=%v)", k, v, form[k], form)
		}
	}
}

func TestStripe_CreateCheckoutSessionGatewayError(t *testing.T) {
	gw := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad currency"}}`))
	})

	_, err := gw.CreateCheckoutSession(context.Background(), CheckoutRequest{
		Currency:  "xxx",
		LineItems: []LineItem{{Name: "Potato", UnitAmount: 100, Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestStripe_ListSessionsByPaymentIntent(t *testing.T) {
	gw := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" || r.URL.Query().Get("payment_intent") != "pi_1" {
			t.Fatalf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","url":"/v1/checkout/sessions","has_more":false,"data":[{"id":"cs_1","object":"checkout.session","metadata":{"orderId":"o1","userId":"u1"}}]}`))
	})

	sessions, err := gw.ListSessionsByPaymentIntent(context.Background(), "pi_1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Metadata[MetadataUserID] != "u1" {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
}

func TestStripe_VerifyWebhook(t *testing.T) {
	gw := NewStripe("sk_test_123", testWebhookSecret, nil)
	payload := []byte(`{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})

	evt, err := gw.VerifyWebhook(signed.Payload, signed.Header)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if evt.ID != "evt_1" || evt.Type != EventPaymentSucceeded || evt.PaymentIntentID != "pi_1" {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestStripe_VerifyWebhookBadSignature(t *testing.T) {
	gw := NewStripe("sk_test_123", testWebhookSecret, nil)
	payload := []byte(`{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_other",
		Timestamp: time.Now(),
	})

	if _, err := gw.VerifyWebhook(signed.Payload, signed.Header); !errors.Is(err, domain.ErrSignature) {
		t.Fatalf("expected ErrSignature, got %v", err)
	}
	if _, err := gw.VerifyWebhook(payload, ""); !errors.Is(err, domain.ErrSignature) {
		t.Fatalf("expected ErrSignature for missing header, got %v", err)
	}
}
