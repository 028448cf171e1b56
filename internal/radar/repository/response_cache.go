package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisPkg "investor-radar/pkg/redis"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ResponseCache stores decoded radar API responses as JSON.
type ResponseCache interface {
	// Get decodes the cached value for key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type memoryResponseCache struct {
	inmemoryCache *cache.Cache
}

// NewMemoryResponseCache creates an in-process cache.
func NewMemoryResponseCache(defaultTTL time.Duration) ResponseCache {
	return &memoryResponseCache{
		inmemoryCache: cache.New(defaultTTL, 2*defaultTTL),
	}
}

func (c *memoryResponseCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	raw, found := c.inmemoryCache.Get(key)
	if !found {
		return false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		c.inmemoryCache.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *memoryResponseCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	c.inmemoryCache.Set(key, data, ttl)
	return nil
}

type redisResponseCache struct {
	redisClient *redisPkg.Client
}

// NewRedisResponseCache creates a cache shared by every instance connected to
// the same Redis database.
func NewRedisResponseCache(redisClient *redisPkg.Client) ResponseCache {
	return &redisResponseCache{redisClient: redisClient}
}

func (c *redisResponseCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.redisClient.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *redisResponseCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	if err := c.redisClient.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}
