package users

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "d"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", byID.Name)

	_, err = repo.GetByEmail(ctx, "bob@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_Duplicate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Name: "Ann", Email: "ann@x.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Name: "Other Ann", Email: "ann@x.com"})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestMemoryRepository_ConcurrentSameEmail(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	const n = 50
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		dupes     atomic.Int32
	)
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.Create(ctx, &models.User{Name: "Ann", Email: "ann@x.com"})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, common.ErrDuplicateEmail):
				dupes.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, succeeded.Load())
	assert.EqualValues(t, n-1, dupes.Load())
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, &models.User{Email: "ann@x.com"})
	assert.ErrorIs(t, err, context.Canceled)
}
