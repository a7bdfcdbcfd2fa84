// Package auth issues and validates the signed session tokens carried in cookies.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// UserCookie carries the buyer session issued by the user service.
	UserCookie = "token"
	// SellerCookie carries the seller session issued by seller login.
	SellerCookie = "sellerToken"

	SellerTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// Issue signs an HS256 token whose id claim is subject.
func (m *TokenManager) Issue(subject string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(m.secret)
}

// Validate returns the id claim of a well-signed, unexpired token.
func (m *TokenManager) Validate(raw string) (string, error) {
	if raw == "" || len(m.secret) == 0 {
		return "", ErrInvalidToken
	}
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if c.ID == "" {
		return "", ErrInvalidToken
	}
	return c.ID, nil
}
