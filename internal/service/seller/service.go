// Package seller authenticates the single store operator account.
package seller

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"storefront/internal/auth"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	email        string
	passwordHash []byte
	tokens       *auth.TokenManager
}

func New(email, passwordHash string, tokens *auth.TokenManager) *Service {
	return &Service{
		email:        strings.TrimSpace(email),
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

// Login checks the configured operator credentials and returns a session token valid for auth.SellerTTL.
func (s *Service) Login(email, password string) (string, error) {
	if s.email == "" || len(s.passwordHash) == 0 {
		return "", ErrInvalidCredentials
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(email)), []byte(s.email)) == 1
	pwErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !emailOK || pwErr != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(s.email, auth.SellerTTL)
}

// Authenticate returns the seller id carried by a session token. Tokens issued to any
// other subject under the same secret are rejected.
func (s *Service) Authenticate(token string) (string, error) {
	id, err := s.tokens.Validate(token)
	if err != nil {
		return "", err
	}
	if s.email == "" || subtle.ConstantTimeCompare([]byte(id), []byte(s.email)) != 1 {
		return "", auth.ErrInvalidToken
	}
	return id, nil
}
