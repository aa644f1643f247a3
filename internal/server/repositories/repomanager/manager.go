// Package repomanager selects and wires the store backend: it owns the
// connection, runs schema setup and vends the repositories.
package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/stylish/internal/server/repositories/purchases"
	"github.com/dmitrijs2005/stylish/internal/server/repositories/users"
)

// RepositoryManager is implemented once per store backend.
type RepositoryManager interface {
	// RunMigrations brings the schema (tables or indexes) up to date.
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Purchases() purchases.Repository
	// Ping reports whether the store currently answers.
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// New opens the backend named by the DSN scheme: postgres:// or
// postgresql://, mongodb:// or mongodb+srv://, memory://.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	scheme, _, ok := strings.Cut(dsn, "://")
	if !ok {
		return nil, fmt.Errorf("store dsn has no scheme")
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return OpenPostgres(ctx, dsn)
	case "mongodb", "mongodb+srv":
		return OpenMongo(ctx, dsn)
	case "memory":
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported store scheme %q", scheme)
	}
}
