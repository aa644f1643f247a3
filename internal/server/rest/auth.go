package rest

import (
	"strings"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/dmitrijs2005/stylish/internal/server/auth"
	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/gin-gonic/gin"
)

// identityKey is the gin context key holding the authenticated identity.
const identityKey = "identity"

// TokenVerifier resolves a bearer token to the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (*models.Identity, error)
}

// RequireAuth admits requests carrying "Authorization: Bearer <token>" with a
// valid token. The identity is stored in the gin context and in the request
// context; every other request is answered with 401.
func RequireAuth(tokens TokenVerifier, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeader)
		if strings.TrimSpace(header) == "" {
			respondError(c, log, common.ErrMissingAuthHeader, msgServerError)
			return
		}

		scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" || strings.ContainsRune(token, ' ') {
			respondError(c, log, common.ErrMalformedAuthHeader, msgServerError)
			return
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			log.Debug(c.Request.Context(), "token rejected", "error", err)
			respondError(c, log, err, msgServerError)
			return
		}

		c.Set(identityKey, *identity)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), *identity))
		c.Next()
	}
}

// identityFrom returns the identity set by RequireAuth.
func identityFrom(c *gin.Context) (models.Identity, bool) {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(models.Identity); ok && id.ID != "" {
			return id, true
		}
	}
	return auth.IdentityFrom(c.Request.Context())
}
