package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "adam:reply:"

// redisClient is the subset of *redis.Client used by [RedisStore].
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore is a [Store] backed by Redis. Expiry is delegated to Redis.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server described by opts. A
// non-positive ttl selects [DefaultTTL]. The connection is not checked;
// use [RedisStore.Ping].
func NewRedisStore(opts *redis.Options, ttl time.Duration) (*RedisStore, error) {
	if opts == nil || opts.Addr == "" {
		return nil, errors.New("cache: redis address must not be empty")
	}
	return newRedisStore(redis.NewClient(opts), ttl), nil
}

func newRedisStore(c redisClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: c, ttl: ttl}
}

// Get implements [Store].
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("cache: redis get: %w", err)
	}
	return b, nil
}

// Set implements [Store].
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

// Ping checks the connection. It satisfies the health checker signature.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Close closes the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
