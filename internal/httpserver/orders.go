package httpserver

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type orderItemRequest struct {
	Product   string `json:"product"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// placeOrderRequest accepts the shipping address either inline or as the id of a saved address.
type placeOrderRequest struct {
	Items   []orderItemRequest `json:"items"`
	Address json.RawMessage    `json:"address"`
}

type updateStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func (r placeOrderRequest) orderItems() []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		id := it.ProductID
		if id == "" {
			id = it.Product
		}
		items = append(items, domain.OrderItem{ProductID: id, Quantity: it.Quantity})
	}
	return items
}

func (h *handlers) resolveAddress(c *gin.Context, userID string, raw json.RawMessage) (*domain.Address, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, domain.ErrInvalidRequest
		}
		if strings.TrimSpace(id) == "" || h.deps.Addresses == nil {
			return nil, nil
		}
		saved, err := h.deps.Addresses.List(c.Request.Context(), userID)
		if err != nil {
			return nil, err
		}
		for i := range saved {
			if saved[i].ID == id {
				return &saved[i], nil
			}
		}
		return nil, nil
	}
	var addr domain.Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil, domain.ErrInvalidRequest
	}
	addr.UserID = userID
	return &addr, nil
}

func (h *handlers) bindOrder(c *gin.Context) ([]domain.OrderItem, *domain.Address, bool) {
	var req placeOrderRequest
	if err := decodeValidated(c, placeOrderLoader, &req); err != nil {
		respondFail(c, msgInvalidData)
		return nil, nil, false
	}
	addr, err := h.resolveAddress(c, c.GetString(userIDKey), req.Address)
	if err != nil {
		h.respondError(c, "resolve address", err)
		return nil, nil, false
	}
	return req.orderItems(), addr, true
}

func (h *handlers) placeCOD(c *gin.Context) {
	items, addr, ok := h.bindOrder(c)
	if !ok {
		return
	}
	if _, err := h.deps.Checkout.PlaceCOD(c.Request.Context(), c.GetString(userIDKey), items, addr); err != nil {
		h.respondError(c, "place cod order", err)
		return
	}
	h.deps.Metrics.OrdersPlaced.WithLabelValues(string(domain.PaymentCOD)).Inc()
	respondMessage(c, "Order Placed Successfully")
}

func (h *handlers) placeOnline(c *gin.Context) {
	items, addr, ok := h.bindOrder(c)
	if !ok {
		return
	}
	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = h.deps.Settings.DefaultOrigin
	}
	url, err := h.deps.Checkout.PlaceOnline(c.Request.Context(), c.GetString(userIDKey), items, addr, origin)
	if err != nil {
		h.respondError(c, "place online order", err)
		return
	}
	h.deps.Metrics.OrdersPlaced.WithLabelValues(string(domain.PaymentOnline)).Inc()
	respondOK(c, gin.H{"url": url})
}

func (h *handlers) userOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListForUser(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.respondError(c, "list user orders", err)
		return
	}
	respondOK(c, gin.H{"orders": orders})
}

func (h *handlers) allOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, "list all orders", err)
		return
	}
	respondOK(c, gin.H{"orders": orders})
}

func (h *handlers) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := decodeValidated(c, updateStatusLoader, &req); err != nil {
		respondFail(c, msgInvalidData)
		return
	}
	if err := h.deps.Orders.UpdateStatus(c.Request.Context(), req.OrderID, req.Status); err != nil {
		h.respondError(c, "update order status", err)
		return
	}
	respondMessage(c, "Status Updated")
}
