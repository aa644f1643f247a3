// Package auth issues and verifies bearer tokens, hashes passwords and
// carries the authenticated identity through a request context.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the registered claims plus the user identity
// under "user".
type Claims struct {
	jwt.RegisteredClaims
	User models.Identity `json:"user"`
}

// TokenService signs and verifies HS256 tokens. It holds no mutable state
// and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns common.ErrMissingSecret when secret is empty.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, common.ErrMissingSecret
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for identity that expires after the configured ttl.
func (s *TokenService) Issue(identity models.Identity) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		User: identity,
	})

	return token.SignedString(s.secret)
}

// Verify checks the signature, algorithm and expiry of tokenString and
// returns the embedded identity. Expired tokens yield common.ErrTokenExpired;
// every other failure yields common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.User.ID == "" {
		return nil, common.ErrInvalidToken
	}

	identity := claims.User
	return &identity, nil
}
