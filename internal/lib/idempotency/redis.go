package idempotency

import (
	"acadeemia/internal/config"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "acadeemia:checkout:"

// RedisGuard holds keys with SET NX so that every instance sees the same set.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard connects to the configured Redis and verifies the connection.
// Returns nil when Redis is disabled.
func NewRedisGuard(conf *config.Config) (*RedisGuard, error) {
	if !conf.Redis.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisGuard{client: client, ttl: conf.Redis.LockTTL}, nil
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) error {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, "1", g.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, keyPrefix+key).Err()
}

func (g *RedisGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *RedisGuard) Close() error {
	return g.client.Close()
}
