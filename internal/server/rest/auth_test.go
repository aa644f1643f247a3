package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/dmitrijs2005/stylish/internal/server/auth"
	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/gin-gonic/gin"
)

type stubVerifier struct {
	identity *models.Identity
	err      error
	got      string
}

func (s *stubVerifier) Verify(token string) (*models.Identity, error) {
	s.got = token
	return s.identity, s.err
}

func TestRequireAuth_SetsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ann := models.Identity{ID: "u-1", Name: "Ann", Email: "ann@x.com"}
	v := &stubVerifier{identity: &ann}

	var fromGin, fromCtx models.Identity
	router := gin.New()
	router.GET("/p", RequireAuth(v, logging.NewNop()), func(c *gin.Context) {
		fromGin, _ = identityFrom(c)
		fromCtx, _ = auth.IdentityFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set(common.AuthorizationHeader, "  BEARER   tok123 ")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
	}
	if v.got != "tok123" {
		t.Fatalf("verifier got token %q", v.got)
	}
	if fromGin != ann || fromCtx != ann {
		t.Fatalf("identity not propagated: gin=%+v ctx=%+v", fromGin, fromCtx)
	}
}

func TestRequireAuth_StopsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)

	v := &stubVerifier{err: common.ErrInvalidToken}
	router := gin.New()
	router.GET("/p", RequireAuth(v, logging.NewNop()), func(c *gin.Context) {
		t.Fatal("handler must not run for a rejected token")
	})

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set(common.AuthorizationHeader, "Bearer nope")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
