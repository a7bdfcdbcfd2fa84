package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidRequest is returned when required input is missing or malformed.
	ErrInvalidRequest = errors.New("invalid data")
	// ErrGateway wraps failures reported by the payment gateway.
	ErrGateway = errors.New("payment gateway error")
	// ErrSignature indicates a webhook payload failed signature verification.
	ErrSignature = errors.New("invalid webhook signature")
)
