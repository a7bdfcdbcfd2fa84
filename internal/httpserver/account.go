package httpserver

import (
	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type addAddressRequest struct {
	Address domain.Address `json:"address"`
}

type updateCartRequest struct {
	CartItems map[string]int `json:"cartItems"`
}

func (h *handlers) addAddress(c *gin.Context) {
	var req addAddressRequest
	if err := decodeValidated(c, addAddressLoader, &req); err != nil {
		respondFail(c, msgInvalidData)
		return
	}
	if _, err := h.deps.Addresses.Add(c.Request.Context(), c.GetString(userIDKey), req.Address); err != nil {
		h.respondError(c, "add address", err)
		return
	}
	respondMessage(c, "Address added successfully")
}

func (h *handlers) listAddresses(c *gin.Context) {
	addresses, err := h.deps.Addresses.List(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.respondError(c, "list addresses", err)
		return
	}
	respondOK(c, gin.H{"addresses": addresses})
}

func (h *handlers) updateCart(c *gin.Context) {
	var req updateCartRequest
	if err := decodeValidated(c, updateCartLoader, &req); err != nil {
		respondFail(c, msgInvalidData)
		return
	}
	if _, err := h.deps.Carts.Update(c.Request.Context(), c.GetString(userIDKey), req.CartItems); err != nil {
		h.respondError(c, "update cart", err)
		return
	}
	respondMessage(c, "Cart Updated")
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.Carts.Get(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.respondError(c, "get cart", err)
		return
	}
	respondOK(c, gin.H{"cartItems": cart.Items})
}
