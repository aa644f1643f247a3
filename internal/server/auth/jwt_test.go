package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

var ann = models.Identity{ID: "u-1", Name: "Ann", Email: "ann@x.com"}

func newService(t *testing.T, secret string, ttl time.Duration) *TokenService {
	t.Helper()
	s, err := NewTokenService(secret, ttl)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	return s
}

func TestNewTokenService_MissingSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenService("", time.Hour); !errors.Is(err, common.ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := newService(t, "super-secret", time.Hour)

	tok, err := s.Issue(ann)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if *got != ann {
		t.Fatalf("identity mismatch: got %+v want %+v", *got, ann)
	}
}

func TestIssue_ClaimLayout(t *testing.T) {
	t.Parallel()

	s := newService(t, "k", time.Hour)
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	tok, err := s.Issue(ann)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	for _, want := range []string{`"user":{"id":"u-1","name":"Ann","email":"ann@x.com"}`, `"iat":1735732800`, `"exp":1735736400`} {
		if !strings.Contains(string(payload), want) {
			t.Fatalf("payload %s does not contain %s", payload, want)
		}
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := newService(t, "secret", time.Hour)
	issuedAt := time.Now()
	s.now = func() time.Time { return issuedAt }

	tok, err := s.Issue(ann)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	s.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }

	_, err = s.Verify(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newService(t, "right-secret", time.Hour).Issue(ann)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = newService(t, "wrong-secret", time.Hour).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s := newService(t, "k", time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		if _, err := s.Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("token %q: expected common.ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	s := newService(t, "k", time.Hour)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		User:             ann,
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Verify(hs512); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("HS512: expected common.ErrInvalidToken, got %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := s.Verify(none); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("none: expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MissingUserClaim(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newService(t, "k", time.Hour).Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{User: ann}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newService(t, "k", time.Hour).Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}
