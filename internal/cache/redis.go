package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// connectTimeout bounds the startup connection check.
const connectTimeout = 5 * time.Second

// NewRedisClient creates and pings a Redis client.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisStore implements Store on Redis for multi-process deployments.
// The payload key carries no TTL so stale reads survive expiry; freshness is
// tracked by a companion marker key that Redis expires on its own.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a connected client. All keys are namespaced under
// prefix so Clear only touches this service's entries.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) payloadKey(key string) string { return s.prefix + key }
func (s *RedisStore) freshKey(key string) string   { return s.prefix + key + ":fresh" }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	n, err := s.client.Exists(ctx, s.freshKey(key)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis exists: %w", err)
	}
	if n == 0 {
		return nil, false, nil
	}
	return s.GetStale(ctx, key)
}

func (s *RedisStore) GetStale(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.payloadKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.payloadKey(key), value, 0)
	pipe.Set(ctx, s.freshKey(key), "1", ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
