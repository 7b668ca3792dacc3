package cache

import (
	"Nutrition-Tracker/internal/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrMiss = errors.New("cache miss")

type (
	// Cache stores JSON encoded values by key.
	Cache interface {
		Get(ctx context.Context, key string, dest any) error
		Set(ctx context.Context, key string, value any) error
		Delete(ctx context.Context, keys ...string) error
	}

	redisCache struct {
		client *redis.Client
		ttl    time.Duration
	}
)

// NewRedisCache returns nil when REDIS_ADDR is not configured.
func NewRedisCache(ctx context.Context) (Cache, error) {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       utils.GetIntConfig("REDIS_DB", 0),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	ttl := time.Duration(utils.GetIntConfig("CACHE_TTL_SECONDS", 3600)) * time.Second
	return NewRedisCacheWithClient(client, ttl), nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
