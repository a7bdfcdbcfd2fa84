package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetrics_HandlerExposesCollectors(t *testing.T) {
	m := New()
	m.Requests.WithLabelValues("/api/order/cod", "200").Inc()
	m.WebhookEvents.WithLabelValues("payment_intent.succeeded", "processed").Inc()

	// a second instance must not panic on duplicate registration
	_ = New()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`storefront_http_requests_total{handler="/api/order/cod",status="200"} 1`,
		`storefront_webhook_events_total{outcome="processed",type="payment_intent.succeeded"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
