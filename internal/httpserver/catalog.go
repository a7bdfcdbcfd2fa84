package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type categoryRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	BgColor string `json:"bgColor"`
}

type byIDRequest struct {
	ID string `json:"id"`
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.Categories.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "list categories", err)
		return
	}
	respondOK(c, gin.H{"categories": categories})
}

func (h *handlers) addCategory(c *gin.Context) {
	var req categoryRequest
	if err := decodeValidated(c, categoryLoader, &req); err != nil {
		respondFail(c, msgInvalidData)
		return
	}
	_, err := h.deps.Categories.Add(c.Request.Context(), domain.Category{Name: req.Name, Image: req.Image, BgColor: req.BgColor})
	if errors.Is(err, domain.ErrInvalidRequest) {
		respondFail(c, "Name, image, and bgColor are required")
		return
	}
	if err != nil {
		h.respondError(c, "add category", err)
		return
	}
	respondMessage(c, "Category Added")
}

func (h *handlers) updateCategory(c *gin.Context) {
	var req categoryRequest
	if err := decodeValidated(c, categoryLoader, &req); err != nil {
		respondFail(c, msgInvalidData)
		return
	}
	_, err := h.deps.Categories.Update(c.Request.Context(), domain.Category{ID: req.ID, Name: req.Name, Image: req.Image, BgColor: req.BgColor})
	if errors.Is(err, domain.ErrNotFound) {
		respondFail(c, "Category not found")
		return
	}
	if err != nil {
		h.respondError(c, "update category", err)
		return
	}
	respondMessage(c, "Category Updated")
}

func (h *handlers) removeCategory(c *gin.Context) {
	var req byIDRequest
	if err := decodeValidated(c, byIDLoader, &req); err != nil {
		respondFail(c, msgInvalidData)
		return
	}
	if err := h.deps.Categories.Remove(c.Request.Context(), req.ID); err != nil {
		h.respondError(c, "remove category", err)
		return
	}
	respondMessage(c, "Category Removed")
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Products.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "list products", err)
		return
	}
	respondOK(c, gin.H{"products": products})
}

func (h *handlers) productByID(c *gin.Context) {
	var req byIDRequest
	if err := decodeValidated(c, byIDLoader, &req); err != nil {
		respondFail(c, msgInvalidData)
		return
	}
	product, err := h.deps.Products.Get(c.Request.Context(), req.ID)
	if errors.Is(err, domain.ErrNotFound) {
		respondFail(c, "Product not found")
		return
	}
	if err != nil {
		h.respondError(c, "get product", err)
		return
	}
	respondOK(c, gin.H{"product": product})
}
