package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxRequestIDLen caps client-supplied request ids before they reach logs.
const maxRequestIDLen = 128

// requestID reuses the caller's X-Request-ID or generates one, echoes it on
// the response and stores it in the request context for logging.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		c.Writer.Header().Set(common.RequestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))

		c.Next()
	}
}

// accessLog emits one entry per request with a masked client IP.
func accessLog(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		args := []any{
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", logging.MaskIP(c.ClientIP()),
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error(c.Request.Context(), "request failed", append(args, "errors", c.Errors.String())...)
			return
		}
		log.Info(c.Request.Context(), "request completed", args...)
	}
}

// recovery turns a handler panic into a logged 500.
func recovery(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		ctx := c.Request.Context()
		log.Error(ctx, "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Message:   msgServerError,
			RequestID: logging.RequestIDFrom(ctx),
		})
	})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", common.AuthorizationHeader, common.RequestIDHeader}
	cfg.ExposeHeaders = []string{common.RequestIDHeader, "Retry-After"}
	cfg.MaxAge = 12 * time.Hour

	if len(origins) == 0 || containsWildcard(origins) {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
