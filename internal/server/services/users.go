package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/dmitrijs2005/stylish/internal/server/auth"
	"github.com/dmitrijs2005/stylish/internal/server/config"
	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/dmitrijs2005/stylish/internal/server/repositories/repomanager"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72
)

// LoginLimiter throttles failed logins per account.
type LoginLimiter interface {
	Allow(ctx context.Context, account string) (bool, error)
	Failed(ctx context.Context, account string) error
	Succeeded(ctx context.Context, account string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Address  *string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  models.Identity
}

type UserService struct {
	repomanager  repomanager.RepositoryManager
	hasher       *auth.PasswordHasher
	tokens       *auth.TokenService
	limiter      LoginLimiter
	storeTimeout time.Duration
	log          logging.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

// NewUserService wires the user use cases. limiter may be nil, which
// disables login throttling.
func NewUserService(m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenService,
	limiter LoginLimiter, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		repomanager:  m,
		hasher:       hasher,
		tokens:       tokens,
		limiter:      limiter,
		storeTimeout: cfg.StoreTimeout,
		log:          log.With("component", "user_service"),
	}
}

// NormalizeEmail trims and lowercases an address so lookups and the
// uniqueness check compare like with like.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)

	switch {
	case name == "" || email == "" || in.Password == "":
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrValidation)
	case len(in.Password) < minPasswordLen:
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLen)
	case len(in.Password) > maxPasswordLen:
		return nil, fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, maxPasswordLen)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		Phone:        trimmedOrNil(in.Phone),
		Address:      trimmedOrNil(in.Address),
	}

	ctx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	created, err := s.repomanager.Users().Create(ctx, user)
	if err != nil {
		return nil, storeError(err)
	}

	s.log.Info(ctx, "user registered", "user_id", created.ID, "email", logging.MaskEmail(created.Email))
	return created, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password produce the same common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	if s.limiter != nil {
		limitCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
		allowed, err := s.limiter.Allow(limitCtx, email)
		cancel()
		if err != nil {
			s.log.Warn(ctx, "login throttle unavailable", "error", err)
		} else if !allowed {
			s.log.Warn(ctx, "login throttled", "email", logging.MaskEmail(email))
			return nil, common.ErrTooManyAttempts
		}
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	user, err := s.repomanager.Users().GetByEmail(storeCtx, email)
	cancel()

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(in.Password, s.dummy())
			s.failed(ctx, email)
			return nil, common.ErrInvalidCredentials
		}
		return nil, storeError(err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.failed(ctx, email)
		return nil, common.ErrInvalidCredentials
	}

	if s.limiter != nil {
		limitCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
		err := s.limiter.Succeeded(limitCtx, email)
		cancel()
		if err != nil {
			s.log.Warn(ctx, "login throttle reset failed", "error", err)
		}
	}

	identity := user.Identity()
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{Token: token, User: identity}, nil
}

func (s *UserService) failed(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	limitCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.limiter.Failed(limitCtx, email); err != nil {
		s.log.Warn(ctx, "login throttle record failed", "error", err)
	}
}

// dummy returns a digest to compare against for unknown accounts, so both
// failure paths cost one hash comparison.
func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummyDigest
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
