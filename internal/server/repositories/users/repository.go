// Package users holds the credential store: user records keyed by a unique,
// normalized email.
package users

import (
	"context"

	"github.com/dmitrijs2005/stylish/internal/server/models"
)

// Repository persists users. Every implementation enforces email
// uniqueness atomically and reports a lost race as common.ErrDuplicateEmail;
// lookups that match nothing return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
