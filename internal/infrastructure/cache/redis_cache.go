// Package cache implements the keyed cache layer on Redis. Correctness
// never depends on it; callers treat every failure as a soft miss.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const connectTimeout = 5 * time.Second

// RedisCache holds the shared, concurrency-safe client handle.
type RedisCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewRedisCache(redisURL string, log zerolog.Logger) (*RedisCache, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL must be provided")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		log:    log.With().Str("component", "redis-cache").Logger(),
	}, nil
}

// Get returns the cached value and whether the key was present. A cache
// miss is not an error.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s from cache: %w", key, err)
	}
	return val, true, nil
}

// SetWithTTL stores the value under key for the given duration.
func (r *RedisCache) SetWithTTL(ctx context.Context, key string, ttl time.Duration, value string) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes the key.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// HealthCheck pings the server.
func (r *RedisCache) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
