// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/jobdeck/internal/platform/sec"
)

// # Token Codec

/*
TestTokenService_RoundTrip verifies that a generated token decodes back to
the same subject with the configured issuer.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("test-signing-secret", "jobdeck.app", time.Hour)
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("tai", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "tai", claims.Username())
	assert.Equal(t, "jobdeck.app", claims.Issuer)
}

/*
TestTokenService_DefaultTTL verifies the fallback lifetime for ttl <= 0.
*/
func TestTokenService_DefaultTTL(t *testing.T) {
	service, err := sec.NewTokenService("test-signing-secret", "jobdeck.app", time.Hour)
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("tai", 0)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 55*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)
}

/*
TestTokenService_Failures covers the rejection paths of the verifier.
*/
func TestTokenService_Failures(t *testing.T) {
	service, err := sec.NewTokenService("test-signing-secret", "jobdeck.app", time.Hour)
	require.NoError(t, err)

	t.Run("missing_token", func(t *testing.T) {
		_, err := service.VerifyToken("")
		assert.ErrorIs(t, err, sec.ErrTokenMissing)
	})

	t.Run("malformed_token", func(t *testing.T) {
		_, err := service.VerifyToken("not-a-jwt")
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)
	})

	t.Run("expired_token", func(t *testing.T) {
		// Negative ttl falls back to the default, so force expiry with a
		// service whose default lifetime is already in the past.
		shortLived, err := sec.NewTokenService("test-signing-secret", "jobdeck.app", -time.Minute)
		require.NoError(t, err)

		token, err := shortLived.GenerateAccessToken("tai", 0)
		require.NoError(t, err)

		_, err = shortLived.VerifyToken(token)
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other, err := sec.NewTokenService("a-different-secret", "jobdeck.app", time.Hour)
		require.NoError(t, err)

		token, err := service.GenerateAccessToken("tai", time.Hour)
		require.NoError(t, err)

		_, err = other.VerifyToken(token)
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)
	})

	t.Run("empty_subject", func(t *testing.T) {
		token, err := service.GenerateAccessToken("", time.Hour)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)
	})

	t.Run("empty_secret_rejected", func(t *testing.T) {
		_, err := sec.NewTokenService("", "jobdeck.app", time.Hour)
		assert.Error(t, err)
	})
}

// # Password Hashing

/*
TestPasswordHashing verifies the hash round trip and mismatch rejection.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, sec.CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
	assert.False(t, sec.CheckPasswordHash("s3cret-pass", "not-a-bcrypt-hash"))
}

// # One-Time Passwords

/*
TestGenerateOTP verifies the numeric range contract across many draws.
*/
func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 200; i++ {
		otp, err := sec.GenerateOTP()
		require.NoError(t, err)

		n, err := strconv.Atoi(otp)
		require.NoError(t, err, "OTP must be numeric: %q", otp)
		assert.GreaterOrEqual(t, n, 111)
		assert.LessOrEqual(t, n, 999999)
	}
}
