// Package common defines shared constants and sentinel errors used across
// the service, repository and transport layers. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrTransient marks store failures the caller may retry (timeouts,
	// lost connections).
	ErrTransient = errors.New("store temporarily unavailable")

	// Service-level errors (generic/internal flow control).
	ErrorInternal         = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")

	// Validation errors.
	ErrValidation      = errors.New("validation error")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidAmount   = errors.New("invalid total amount")
	ErrInvalidLineItem = errors.New("invalid line item")
	ErrAmountMismatch  = errors.New("total amount does not match line items")

	// Auth errors.
	ErrMissingAuthHeader   = errors.New("missing authorization header")
	ErrMalformedAuthHeader = errors.New("malformed authorization header")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")

	// Configuration errors.
	ErrMissingSecret   = errors.New("token signing secret is not configured")
	ErrInvalidTokenTTL = errors.New("token lifetime must be positive")
)
