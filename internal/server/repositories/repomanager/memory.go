package repomanager

import (
	"context"

	"github.com/dmitrijs2005/stylish/internal/server/repositories/purchases"
	"github.com/dmitrijs2005/stylish/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. It backs
// memory:// DSNs and service tests.
type MemoryRepositoryManager struct {
	users     *users.MemoryRepository
	purchases *purchases.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:     users.NewMemoryRepository(),
		purchases: purchases.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }
func (m *MemoryRepositoryManager) Purchases() purchases.Repository { return m.purchases }
func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Close(context.Context) error { return nil }
