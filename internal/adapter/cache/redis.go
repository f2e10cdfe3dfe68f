// Package cache implements a Redis cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"
)

type RedisCache struct {
	conn *redis.Client
	ttl  time.Duration
}

// NewRedisCache connects to the Redis server at url. Entries expire after ttl;
// a zero ttl keeps them forever.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisCache{conn: client, ttl: ttl}, nil
}

// GetJSON unmarshals the value stored at key into value. It reports false
// when the key is missing.
func (rc *RedisCache) GetJSON(ctx context.Context, key string, value any) (bool, error) {
	s, err := rc.conn.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(s), value); err != nil {
		return false, fmt.Errorf("unmarshaling cached JSON for %q: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value as a JSON string.
func (rc *RedisCache) SetJSON(ctx context.Context, key string, value any) error {
	t, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling JSON for cache key %q: %w", key, err)
	}
	return rc.conn.Set(ctx, key, string(t), rc.ttl).Err()
}

func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rc.conn.Del(ctx, keys...).Err()
}

func (rc *RedisCache) Close() error {
	return rc.conn.Close()
}
