package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

// stripeWebhook needs the body byte-for-byte as sent, so it never goes through JSON binding.
func (h *handlers) stripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	evt, outcome, err := h.deps.Reconciler.Process(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case errors.Is(err, domain.ErrSignature):
		h.deps.Metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		h.logger.Printf("webhook: rejected error=%v", err)
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
	case err != nil:
		h.deps.Metrics.WebhookEvents.WithLabelValues(evt.Type, "error").Inc()
		h.logger.Printf("webhook: event=%s type=%s error=%v", evt.ID, evt.Type, err)
		respondFail(c, err.Error())
	default:
		h.deps.Metrics.WebhookEvents.WithLabelValues(evt.Type, string(outcome)).Inc()
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
