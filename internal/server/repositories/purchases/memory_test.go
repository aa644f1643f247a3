package purchases

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_HistoryNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		p, err := repo.Create(ctx, &models.Purchase{UserID: "u-1", Products: twoItems(), TotalAmount: 10, Status: models.PurchaseStatusPending})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	_, err := repo.Create(ctx, &models.Purchase{UserID: "u-2", Products: twoItems(), TotalAmount: 10})
	require.NoError(t, err)

	got, err := repo.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt), "timestamps strictly increase under a frozen clock")
}

func TestMemoryRepository_EmptyHistory(t *testing.T) {
	got, err := NewMemoryRepository().ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemoryRepository_StoredCopyIsIsolated(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	in := &models.Purchase{UserID: "u-1", Products: twoItems(), TotalAmount: 10}
	_, err := repo.Create(ctx, in)
	require.NoError(t, err)
	in.Products[0].Quantity = 99

	got, err := repo.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got[0].Products[0].Quantity)
}
