package purchases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps purchases in process memory. Creation timestamps
// are strictly increasing so history order is total.
type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]models.Purchase
	last   time.Time
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byUser: make(map[string][]models.Purchase),
		now:    time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, p *models.Purchase) (*models.Purchase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if !now.After(r.last) {
		now = r.last.Add(time.Microsecond)
	}
	r.last = now

	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	stored := *p
	stored.Products = append([]models.LineItem(nil), p.Products...)
	r.byUser[p.UserID] = append(r.byUser[p.UserID], stored)
	return p, nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Purchase, 0, len(r.byUser[userID]))
	for _, p := range r.byUser[userID] {
		p.Products = append([]models.LineItem{}, p.Products...)
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}
