// Package services implements the storefront use cases: registration, login
// and recording and listing purchases.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/dbx"
	"go.mongodb.org/mongo-driver/mongo"
)

// withStoreTimeout bounds a store call. A non-positive d only adds a cancel.
func withStoreTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// storeError passes domain sentinels through and classifies everything else
// as transient or internal.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrDuplicateEmail):
		return err
	case dbx.IsTransient(err), mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %w", common.ErrTransient, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
}
