// Package purchases stores recorded orders and reads a user's purchase
// history back newest first.
package purchases

import (
	"context"

	"github.com/dmitrijs2005/stylish/internal/server/models"
)

// Repository persists purchases. Create assigns the id and timestamps in one
// durable write. ListByUser orders by creation time descending with the id
// as tie breaker and returns an empty, non-nil slice when nothing matches.
type Repository interface {
	Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error)
	ListByUser(ctx context.Context, userID string) ([]models.Purchase, error)
}
