package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a thin Redis-backed implementation of Cache.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedis creates a Redis client with the given address, password and DB number.
func NewRedis(addr, password string, dbNumber int) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbNumber,
	})
	return &RedisClient{rdb: rdb}
}

// Ping checks if Redis is reachable.
func (c *RedisClient) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Set stores a value with the given TTL.
func (c *RedisClient) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a value by key.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

// Del deletes a key from Redis.
func (c *RedisClient) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Close releases the connection pool.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

var _ Cache = (*RedisClient)(nil)
