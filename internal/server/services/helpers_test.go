package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/dmitrijs2005/stylish/internal/server/auth"
	"github.com/dmitrijs2005/stylish/internal/server/config"
	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/dmitrijs2005/stylish/internal/server/notify"
	"github.com/dmitrijs2005/stylish/internal/server/repositories/purchases"
	"github.com/dmitrijs2005/stylish/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/stylish/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	return cfg
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	return tokens
}

func newUserSvc(t *testing.T, m repomanager.RepositoryManager, limiter LoginLimiter) *UserService {
	t.Helper()
	return NewUserService(m, auth.NewPasswordHasher(bcrypt.MinCost), newTokens(t), limiter, testConfig(), logging.NewNop())
}

func ptr[T any](v T) *T { return &v }

// fakeRepoManager overrides individual repositories of an in-memory manager.
type fakeRepoManager struct {
	*repomanager.MemoryRepositoryManager
	users     users.Repository
	purchases purchases.Repository
}

func (m *fakeRepoManager) Users() users.Repository {
	if m.users != nil {
		return m.users
	}
	return m.MemoryRepositoryManager.Users()
}

func (m *fakeRepoManager) Purchases() purchases.Repository {
	if m.purchases != nil {
		return m.purchases
	}
	return m.MemoryRepositoryManager.Purchases()
}

type fakeUsersRepo struct {
	users.Repository
	getByEmailErr error
	getByIDOut    *models.User
	getByIDErr    error
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, f.getByEmailErr
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDOut, nil
}

type fakePurchasesRepo struct {
	createErr error
	listOut   []models.Purchase
	listErr   error
	deadline  bool
}

func (f *fakePurchasesRepo) Create(ctx context.Context, p *models.Purchase) (*models.Purchase, error) {
	_, f.deadline = ctx.Deadline()
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = "pur-1"
	return p, nil
}

func (f *fakePurchasesRepo) ListByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	return f.listOut, f.listErr
}

type fakeLimiter struct {
	mu        sync.Mutex
	allow     bool
	allowErr  error
	failed    int
	succeeded int
	// unbounded names the calls that arrived without a deadline.
	unbounded []string
}

func (f *fakeLimiter) record(ctx context.Context, call string) {
	if _, ok := ctx.Deadline(); !ok {
		f.unbounded = append(f.unbounded, call)
	}
}

func (f *fakeLimiter) Allow(ctx context.Context, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "Allow")
	return f.allow, f.allowErr
}

func (f *fakeLimiter) Failed(ctx context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "Failed")
	f.failed++
	return nil
}

func (f *fakeLimiter) Succeeded(ctx context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "Succeeded")
	f.succeeded++
	return nil
}

type recordingNotifier struct {
	events []notify.PurchaseEvent
	err    error
}

func (r *recordingNotifier) PurchaseRecorded(ctx context.Context, e notify.PurchaseEvent) error {
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingNotifier) Close() error { return nil }
