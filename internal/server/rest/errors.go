package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/dmitrijs2005/stylish/internal/server/services"
	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is sent with 503 responses caused by an unavailable store.
const retryAfterSeconds = "5"

// Fallback messages for unmapped failures.
const (
	msgServerError   = "Server error"
	msgRecordFailed  = "Error recording purchase"
	msgHistoryFailed = "Error fetching history"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Index     *int   `json:"index,omitempty"`
}

// errorCase maps a sentinel error to an HTTP status and public message.
// An empty message means the error text itself is safe to show.
type errorCase struct {
	err     error
	status  int
	message string
}

var errorCases = []errorCase{
	{common.ErrValidation, http.StatusBadRequest, ""},
	{common.ErrEmptyCart, http.StatusBadRequest, "Cart is empty"},
	{common.ErrInvalidAmount, http.StatusBadRequest, "Total amount must be a positive number"},
	{common.ErrInvalidLineItem, http.StatusBadRequest, ""},
	{common.ErrAmountMismatch, http.StatusBadRequest, "Total amount does not match line items"},
	{common.ErrDuplicateEmail, http.StatusConflict, "User exists"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{common.ErrTooManyAttempts, http.StatusTooManyRequests, "Too many failed login attempts, try again later"},
	{common.ErrMissingAuthHeader, http.StatusUnauthorized, "No token, authorization denied."},
	{common.ErrMalformedAuthHeader, http.StatusUnauthorized, "Token format invalid."},
	{common.ErrTokenExpired, http.StatusUnauthorized, "Token has expired."},
	{common.ErrInvalidToken, http.StatusUnauthorized, "Token is not valid."},
	{common.ErrTransient, http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

// respondError writes the mapped response for err and aborts the chain.
// Unmapped errors become a 500 carrying fallback, and are logged in full.
func respondError(c *gin.Context, log logging.Logger, err error, fallback string) {
	ctx := c.Request.Context()
	body := errorResponse{RequestID: logging.RequestIDFrom(ctx)}

	for _, cs := range errorCases {
		if !errors.Is(err, cs.err) {
			continue
		}

		body.Message = cs.message
		if body.Message == "" {
			body.Message = publicMessage(err)
		}

		var lie *services.LineItemError
		if errors.As(err, &lie) {
			idx := lie.Index
			body.Index = &idx
		}

		if cs.status == http.StatusServiceUnavailable {
			c.Header("Retry-After", retryAfterSeconds)
			log.Warn(ctx, "store unavailable", "path", c.FullPath(), "error", err)
		}

		_ = c.Error(err)
		c.AbortWithStatusJSON(cs.status, body)
		return
	}

	log.Error(ctx, "request failed", "path", c.FullPath(), "error", err)
	_ = c.Error(err)
	body.Message = fallback
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// publicMessage turns "validation error: password too short" into
// "Password too short".
func publicMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && errors.Is(err, common.ErrValidation) {
		msg = msg[i+2:]
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
