// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// # Ephemeral Cache

// RedisEphemeralCache implements [EphemeralCache] using Redis.
//
// Keys are fully formed by the service layer (prefix + username + host), so
// this type stays a thin TTL-aware key-value adapter.
type RedisEphemeralCache struct {
	client *redis.Client
}

// NewEphemeralCache creates a new Redis-backed EphemeralCache.
func NewEphemeralCache(client *redis.Client) *RedisEphemeralCache {
	return &RedisEphemeralCache{client: client}
}

/*
SetWithTTL stores a value under a key for a limited duration.

Description: A later write to the same key silently overwrites the earlier
value (last-write-wins), which is the desired behavior for repeated login
attempts from the same host.

Parameters:
  - context: context.Context
  - key: string
  - value: string
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (cache *RedisEphemeralCache) SetWithTTL(context context.Context, key, value string, ttl time.Duration) error {
	if err := cache.client.Set(context, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_ephemeral_cache_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the value stored under a key.

Description: An absent key (never written, or aged out by TTL) is reported as
[ErrCacheMiss] so the caller can distinguish expiry from connectivity errors.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - string: Stored value
  - error: ErrCacheMiss when absent, otherwise connectivity errors
*/
func (cache *RedisEphemeralCache) Get(context context.Context, key string) (string, error) {
	value, err := cache.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("redis_ephemeral_cache_get_failed: %w", err)
	}
	return value, nil
}
