// Package common contains shared constants and sentinel errors used across
// the storefront backend.
package common

const (
	// AuthorizationHeader carries the bearer token on authenticated requests.
	AuthorizationHeader = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// RequestIDHeader is echoed back on every HTTP response.
	RequestIDHeader = "X-Request-ID"
)
