package throttle

import (
	"context"
	"time"
)

// LoginLimiter blocks an account after MaxAttempts failed logins inside
// Window. A successful login clears the account's history.
type LoginLimiter struct {
	store       Store
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

func NewLoginLimiter(store Store, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{store: store, maxAttempts: maxAttempts, window: window, now: time.Now}
}

// Allow reports whether another attempt for account may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, account string) (bool, error) {
	n, err := l.store.Count(ctx, account, l.window, l.now())
	if err != nil {
		return false, err
	}
	return n < l.maxAttempts, nil
}

// Failed records a failed attempt.
func (l *LoginLimiter) Failed(ctx context.Context, account string) error {
	return l.store.Record(ctx, account, l.now(), l.window)
}

// Succeeded clears the failure history.
func (l *LoginLimiter) Succeeded(ctx context.Context, account string) error {
	return l.store.Reset(ctx, account)
}
