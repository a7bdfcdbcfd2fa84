package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/auth"
	sellersvc "storefront/internal/service/seller"
)

type sellerLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) sellerLogin(c *gin.Context) {
	var req sellerLoginRequest
	if err := decodeValidated(c, sellerLoginLoader, &req); err != nil {
		respondFail(c, msgInvalidData)
		return
	}
	token, err := h.deps.Seller.Login(req.Email, req.Password)
	if errors.Is(err, sellersvc.ErrInvalidCredentials) {
		respondFail(c, "Invalid email or password")
		return
	}
	if err != nil {
		h.respondError(c, "seller login", err)
		return
	}
	h.setSellerCookie(c, token, int(auth.SellerTTL.Seconds()))
	respondOK(c, gin.H{
		"message": "Seller logged in successfully",
		"seller":  gin.H{"email": req.Email},
	})
}

func (h *handlers) sellerIsAuth(c *gin.Context) {
	respondMessage(c, "Seller is authenticated")
}

func (h *handlers) sellerLogout(c *gin.Context) {
	h.setSellerCookie(c, "", -1)
	respondMessage(c, "Seller logged out successfully")
}

// setSellerCookie issues the session cookie; cross-site in production, same-site otherwise.
func (h *handlers) setSellerCookie(c *gin.Context, value string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if h.deps.Settings.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.SellerCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.deps.Settings.Production,
		SameSite: sameSite,
	})
}
