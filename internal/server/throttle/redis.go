// Package throttle limits repeated failed logins per account using a
// sliding window kept in Redis sorted sets.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store records attempts in a sliding window.
type Store interface {
	Record(ctx context.Context, key string, at time.Time, ttl time.Duration) error
	Count(ctx context.Context, key string, window time.Duration, reference time.Time) (int, error)
	Reset(ctx context.Context, key string) error
}

// RedisStore keeps one sorted set per key, scored by attempt time in
// nanoseconds.
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
}

func NewRedisStore(client redis.Cmdable, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Record adds an attempt at the given time and refreshes the key ttl.
func (s *RedisStore) Record(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	k := s.key(key)
	member := redis.Z{
		Score:  float64(at.UnixNano()),
		Member: fmt.Sprintf("%d-%s", at.UnixNano(), uuid.NewString()),
	}

	if err := s.client.ZAdd(ctx, k, member).Err(); err != nil {
		return fmt.Errorf("redis zadd: %w", err)
	}
	if ttl > 0 {
		if err := s.client.Expire(ctx, k, ttl).Err(); err != nil {
			return fmt.Errorf("redis expire: %w", err)
		}
	}
	return nil
}

// Count trims attempts older than the window and returns how many remain
// inside it.
func (s *RedisStore) Count(ctx context.Context, key string, window time.Duration, reference time.Time) (int, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}

	k := s.key(key)
	from := fmt.Sprintf("%d", reference.Add(-window).UnixNano())
	to := fmt.Sprintf("%d", reference.UnixNano())

	if err := s.client.ZRemRangeByScore(ctx, k, "-inf", "("+from).Err(); err != nil {
		return 0, fmt.Errorf("redis zremrangebyscore: %w", err)
	}

	n, err := s.client.ZCount(ctx, k, from, to).Result()
	if err != nil {
		return 0, fmt.Errorf("redis zcount: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) key(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}
