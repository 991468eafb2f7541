// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/jobdeck/internal/auth"
)

// newTestCache spins up an embedded Redis and returns a cache bound to it.
func newTestCache(t *testing.T) (*auth.RedisEphemeralCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewEphemeralCache(client), mr
}

/*
TestRedisEphemeralCache_SetGet verifies round-trip storage and the
last-write-wins contract for repeated writes to the same key.
*/
func TestRedisEphemeralCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetWithTTL(ctx, "auth:otp:tai:10.0.0.1", "123456", auth.OTPTTL))

	value, err := cache.Get(ctx, "auth:otp:tai:10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "123456", value)

	// A second login overwrites the pending challenge.
	require.NoError(t, cache.SetWithTTL(ctx, "auth:otp:tai:10.0.0.1", "654321", auth.OTPTTL))

	value, err = cache.Get(ctx, "auth:otp:tai:10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "654321", value)
}

/*
TestRedisEphemeralCache_Miss verifies that an absent key maps to the
ErrCacheMiss sentinel, not a generic error.
*/
func TestRedisEphemeralCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "auth:otp:ghost:10.0.0.1")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrCacheMiss)
}

/*
TestRedisEphemeralCache_TTLExpiry verifies that a key aged past its TTL
behaves exactly like an absent key.
*/
func TestRedisEphemeralCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetWithTTL(ctx, "auth:otp:tai:10.0.0.1", "123456", auth.OTPTTL))

	// Age the clock past the challenge window.
	mr.FastForward(auth.OTPTTL + time.Second)

	_, err := cache.Get(ctx, "auth:otp:tai:10.0.0.1")
	assert.ErrorIs(t, err, auth.ErrCacheMiss)
}
