package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

const msgInvalidData = "Invalid data"

// Business outcomes are always HTTP 200 with a success flag.
func respondOK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func respondFail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

func (h *handlers) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		respondFail(c, msgInvalidData)
	case errors.Is(err, domain.ErrAlreadyExists):
		respondFail(c, "Already exists")
	case errors.Is(err, domain.ErrNotFound):
		respondFail(c, "Not found")
	default:
		h.logger.Printf("http: %s error=%v", op, err)
		respondFail(c, err.Error())
	}
}
