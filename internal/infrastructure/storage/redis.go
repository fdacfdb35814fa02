package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcare/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists values in Redis so carts survive server restarts
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store from a redis:// URL. A ttl of zero keeps values forever.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	return &RedisStore{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

// Get retrieves a value from Redis
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return value, nil
}

// Set stores a value in Redis
func (s *RedisStore) Set(ctx context.Context, key string, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Delete removes a value from Redis
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Ping checks connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}
