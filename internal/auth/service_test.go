// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/jobdeck/internal/auth"
	"github.com/taibuivan/jobdeck/internal/platform/apperr"
	"github.com/taibuivan/jobdeck/internal/platform/sec"
)

// # Test Doubles

// fakeUserRepo is an in-memory UserRepository keyed by username.
type fakeUserRepo struct {
	users map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*auth.User{}}
}

func (repo *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	user, ok := repo.users[username]
	if !ok {
		return nil, apperr.NotFound("User not found with this username")
	}
	clone := *user
	return &clone, nil
}

func (repo *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	clone := *user
	repo.users[user.Username] = &clone
	return nil
}

func (repo *fakeUserRepo) Save(_ context.Context, user *auth.User) error {
	clone := *user
	repo.users[user.Username] = &clone
	return nil
}

func (repo *fakeUserRepo) UpdatePassword(_ context.Context, username, newHash string) error {
	user, ok := repo.users[username]
	if !ok {
		return apperr.NotFound("User not found with this username")
	}
	user.PasswordHash = newHash
	return nil
}

func (repo *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*auth.User, error) {
	users := []*auth.User{}
	for _, user := range repo.users {
		clone := *user
		users = append(users, &clone)
	}
	if offset >= len(users) {
		return []*auth.User{}, nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end], nil
}

func (repo *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(repo.users), nil
}

func (repo *fakeUserRepo) Delete(_ context.Context, username string) error {
	delete(repo.users, username)
	return nil
}

// fakeTokenLog records every appended audit entry. A non-nil failWith makes
// every Append fail.
type fakeTokenLog struct {
	records  []*auth.TokenRecord
	failWith error
}

func (log *fakeTokenLog) Append(_ context.Context, record *auth.TokenRecord) error {
	if log.failWith != nil {
		return log.failWith
	}
	clone := *record
	log.records = append(log.records, &clone)
	return nil
}

// fakeCache is an in-memory EphemeralCache. TTLs are recorded but not
// enforced; absence semantics are driven by the values map directly.
type fakeCache struct {
	values   map[string]string
	ttls     map[string]time.Duration
	failWith error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (cache *fakeCache) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	if cache.failWith != nil {
		return cache.failWith
	}
	cache.values[key] = value
	cache.ttls[key] = ttl
	return nil
}

func (cache *fakeCache) Get(_ context.Context, key string) (string, error) {
	value, ok := cache.values[key]
	if !ok {
		return "", auth.ErrCacheMiss
	}
	return value, nil
}

// fakeNotifier captures dispatched messages.
type fakeNotifier struct {
	to       []string
	subjects []string
	bodies   []string
	failWith error
}

func (notifier *fakeNotifier) Send(_ context.Context, to, subject, body string) error {
	if notifier.failWith != nil {
		return notifier.failWith
	}
	notifier.to = append(notifier.to, to)
	notifier.subjects = append(notifier.subjects, subject)
	notifier.bodies = append(notifier.bodies, body)
	return nil
}

// # Fixture

type fixture struct {
	service  *auth.Service
	users    *fakeUserRepo
	tokenLog *fakeTokenLog
	cache    *fakeCache
	notifier *fakeNotifier
	codec    *sec.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec, err := sec.NewTokenService("test-signing-secret", "jobdeck.app", time.Hour)
	require.NoError(t, err)

	users := newFakeUserRepo()
	tokenLog := &fakeTokenLog{}
	cache := newFakeCache()
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service:  auth.NewService(users, tokenLog, cache, notifier, codec, time.Hour, logger),
		users:    users,
		tokenLog: tokenLog,
		cache:    cache,
		notifier: notifier,
		codec:    codec,
	}
}

// seedUser creates a user with a bcrypt-hashed password directly in the repo.
func (f *fixture) seedUser(t *testing.T, username, password string, mutate func(*auth.User)) {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &auth.User{
		Username:     username,
		PasswordHash: hash,
		Role:         sec.RoleAdmin,
		IsEnabled:    true,
	}
	if mutate != nil {
		mutate(user)
	}
	f.users.users[username] = user
}

// # Enrollment

/*
TestService_CreateUser_New verifies that an unknown username creates an
enabled Admin account with a hashed password.
*/
func TestService_CreateUser_New(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.CreateUser(context.Background(), auth.CreateUserInput{
		Username: "tai",
		Password: "s3cret-pass",
		Email:    "tai@jobdeck.app",
	})
	require.NoError(t, err)
	assert.True(t, created)

	stored := f.users.users["tai"]
	require.NotNil(t, stored)
	assert.Equal(t, sec.RoleAdmin, stored.Role)
	assert.True(t, stored.IsEnabled)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("s3cret-pass", stored.PasswordHash))
}

/*
TestService_CreateUser_Existing verifies the create-or-login behavior for an
already-registered username.
*/
func TestService_CreateUser_Existing(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", nil)

	t.Run("correct_password", func(t *testing.T) {
		created, err := f.service.CreateUser(context.Background(), auth.CreateUserInput{
			Username: "tai",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := f.service.CreateUser(context.Background(), auth.CreateUserInput{
			Username: "tai",
			Password: "wrong",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})
}

// # Login

/*
TestService_Login_GenericRejection verifies that unknown usernames and wrong
passwords produce the identical generic message, with no side effects.
*/
func TestService_Login_GenericRejection(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", nil)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown_username", "ghost", "whatever"},
		{"wrong_password", "tai", "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Login(context.Background(), auth.LoginInput{
				Username: tt.username,
				Password: tt.password,
				Host:     "10.0.0.1",
			})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNAUTHORIZED", ae.Code)
			assert.Equal(t, "Incorrect username or password", ae.Message)

			// No token, no cache writes, no audit records on rejection.
			assert.Empty(t, f.tokenLog.records)
			assert.Empty(t, f.cache.values)
		})
	}
}

/*
TestService_Login_TokenIssued covers the non-MFA happy path: a decodable
token is returned, mirrored in the cache, and audited.
*/
func TestService_Login_TokenIssued(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", nil)

	result, err := f.service.Login(context.Background(), auth.LoginInput{
		Username: "tai",
		Password: "s3cret-pass",
		Host:     "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, auth.LoginTokenIssued, result.Outcome)
	assert.Equal(t, auth.TokenType, result.TokenType)
	require.NotEmpty(t, result.AccessToken)

	// The token must verify and assert the username as subject.
	claims, err := f.codec.VerifyToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tai", claims.Username())

	// Cache mirror under the (username, host) scoped key, with the session TTL.
	cached, err := f.cache.Get(context.Background(), "auth:token:tai:10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, result.AccessToken, cached)
	assert.Equal(t, auth.TokenCacheTTL, f.cache.ttls["auth:token:tai:10.0.0.1"])

	// Exactly one audit record, inactive, carrying the token.
	require.Len(t, f.tokenLog.records, 1)
	record := f.tokenLog.records[0]
	assert.Equal(t, "tai", record.Username)
	assert.Equal(t, result.AccessToken, record.Token)
	assert.False(t, record.Active)
	assert.NotEmpty(t, record.ID)
}

/*
TestService_Login_MFA covers the multi-factor branch: an OTP is cached and
emailed, and no token or audit record exists yet.
*/
func TestService_Login_MFA(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", func(u *auth.User) {
		u.IsMFA = true
		u.Email = "tai@jobdeck.app"
	})

	result, err := f.service.Login(context.Background(), auth.LoginInput{
		Username: "tai",
		Password: "s3cret-pass",
		Host:     "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, auth.LoginOTPSent, result.Outcome)
	assert.Empty(t, result.AccessToken)

	// The challenge is cached under the (username, host) key with the OTP TTL.
	otp, err := f.cache.Get(context.Background(), "auth:otp:tai:10.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, otp)
	assert.Equal(t, auth.OTPTTL, f.cache.ttls["auth:otp:tai:10.0.0.1"])

	// The code was dispatched to the registered email.
	require.Len(t, f.notifier.to, 1)
	assert.Equal(t, "tai@jobdeck.app", f.notifier.to[0])
	assert.Contains(t, f.notifier.bodies[0], otp)

	// No audit record until the OTP is verified.
	assert.Empty(t, f.tokenLog.records)
}

/*
TestService_Login_MFAWithoutEmail verifies the precondition failure when MFA
is enabled but no email is registered.
*/
func TestService_Login_MFAWithoutEmail(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", func(u *auth.User) {
		u.IsMFA = true
	})

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Username: "tai",
		Password: "s3cret-pass",
		Host:     "10.0.0.1",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "BAD_REQUEST", ae.Code)
}

/*
TestService_Login_NotifierFailure verifies that a failed OTP dispatch is
surfaced as an internal error with no retry.
*/
func TestService_Login_NotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", func(u *auth.User) {
		u.IsMFA = true
		u.Email = "tai@jobdeck.app"
	})
	f.notifier.failWith = errors.New("smtp: connection refused")

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Username: "tai",
		Password: "s3cret-pass",
		Host:     "10.0.0.1",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "INTERNAL_ERROR", ae.Code)
}

/*
TestService_Login_AuditBestEffort verifies that a failing audit append does
not block token issuance: the caller still receives a valid token.
*/
func TestService_Login_AuditBestEffort(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", nil)
	f.tokenLog.failWith = errors.New("pg: connection reset")

	result, err := f.service.Login(context.Background(), auth.LoginInput{
		Username: "tai",
		Password: "s3cret-pass",
		Host:     "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, auth.LoginTokenIssued, result.Outcome)
	claims, err := f.codec.VerifyToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tai", claims.Username())
}

/*
TestService_Login_CacheFailure verifies that a failed token cache write is
authorization-relevant and fails the login.
*/
func TestService_Login_CacheFailure(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", nil)
	f.cache.failWith = errors.New("redis: connection refused")

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Username: "tai",
		Password: "s3cret-pass",
		Host:     "10.0.0.1",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "INTERNAL_ERROR", ae.Code)
}

// # OTP Verification

/*
TestService_VerifyOTP exercises all four outcomes of the challenge-response:
unknown user, expired challenge, rejected code, and successful issuance.
*/
func TestService_VerifyOTP(t *testing.T) {

	t.Run("unknown_user", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.VerifyOTP(context.Background(), auth.VerifyOTPInput{
			Username: "ghost",
			OTP:      "123456",
			Host:     "10.0.0.1",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})

	t.Run("expired_challenge", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "tai", "s3cret-pass", nil)

		// Nothing in the cache: the challenge aged out.
		result, err := f.service.VerifyOTP(context.Background(), auth.VerifyOTPInput{
			Username: "tai",
			OTP:      "123456",
			Host:     "10.0.0.1",
		})
		require.NoError(t, err)
		assert.Equal(t, auth.OTPExpired, result.Outcome)
		assert.Nil(t, result.Login)
	})

	t.Run("rejected_code", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "tai", "s3cret-pass", nil)
		f.cache.values["auth:otp:tai:10.0.0.1"] = "654321"

		result, err := f.service.VerifyOTP(context.Background(), auth.VerifyOTPInput{
			Username: "tai",
			OTP:      "123456",
			Host:     "10.0.0.1",
		})
		require.NoError(t, err)
		assert.Equal(t, auth.OTPRejected, result.Outcome)
		assert.Nil(t, result.Login)
		assert.Empty(t, f.tokenLog.records)
	})

	t.Run("issued", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "tai", "s3cret-pass", func(u *auth.User) {
			u.IsMFA = true
			u.Email = "tai@jobdeck.app"
			u.OTP = "654321"
		})
		f.cache.values["auth:otp:tai:10.0.0.1"] = "654321"

		result, err := f.service.VerifyOTP(context.Background(), auth.VerifyOTPInput{
			Username: "tai",
			OTP:      "654321",
			Host:     "10.0.0.1",
		})
		require.NoError(t, err)

		assert.Equal(t, auth.OTPIssued, result.Outcome)
		require.NotNil(t, result.Login)
		assert.Equal(t, auth.LoginTokenIssued, result.Login.Outcome)

		claims, err := f.codec.VerifyToken(result.Login.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "tai", claims.Username())

		// The persisted OTP mirror was cleared.
		assert.Empty(t, f.users.users["tai"].OTP)

		// Issuance audited exactly as in the non-MFA branch.
		require.Len(t, f.tokenLog.records, 1)
		assert.Equal(t, result.Login.AccessToken, f.tokenLog.records[0].Token)
	})
}

// # Logout

/*
TestService_Logout verifies the soft-delete plus revocation-marker contract,
including the mandatory nature of both writes.
*/
func TestService_Logout(t *testing.T) {

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "tai", "s3cret-pass", nil)

		err := f.service.Logout(context.Background(), "tai")
		require.NoError(t, err)

		assert.True(t, f.users.users["tai"].IsDeleted)

		require.Len(t, f.tokenLog.records, 1)
		record := f.tokenLog.records[0]
		assert.Equal(t, "tai", record.Username)
		assert.Empty(t, record.Token)
		assert.False(t, record.Active)
	})

	t.Run("unknown_user", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.Logout(context.Background(), "ghost")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})

	t.Run("audit_failure_is_fatal", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "tai", "s3cret-pass", nil)
		f.tokenLog.failWith = errors.New("pg: connection reset")

		err := f.service.Logout(context.Background(), "tai")
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "INTERNAL_ERROR", ae.Code)
	})
}

// # Password Management

/*
TestService_ChangePassword covers old-password verification, confirmation
matching, and the successful rotation path.
*/
func TestService_ChangePassword(t *testing.T) {

	t.Run("wrong_old_password", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "tai", "s3cret-pass", nil)

		err := f.service.ChangePassword(context.Background(), auth.ChangePasswordInput{
			Username:          "tai",
			OldPassword:       "wrong",
			NewPassword:       "new-pass",
			VerifyNewPassword: "new-pass",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})

	t.Run("confirmation_mismatch", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "tai", "s3cret-pass", nil)

		err := f.service.ChangePassword(context.Background(), auth.ChangePasswordInput{
			Username:          "tai",
			OldPassword:       "s3cret-pass",
			NewPassword:       "new-pass",
			VerifyNewPassword: "different",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "BAD_REQUEST", ae.Code)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.seedUser(t, "tai", "s3cret-pass", nil)

		err := f.service.ChangePassword(context.Background(), auth.ChangePasswordInput{
			Username:          "tai",
			OldPassword:       "s3cret-pass",
			NewPassword:       "new-pass",
			VerifyNewPassword: "new-pass",
		})
		require.NoError(t, err)

		assert.True(t, sec.CheckPasswordHash("new-pass", f.users.users["tai"].PasswordHash))
	})
}

// # Account Administration

/*
TestService_UpdateUser verifies the explicit partial-update surface: only
non-nil fields are applied.
*/
func TestService_UpdateUser(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", func(u *auth.User) {
		u.Email = "old@jobdeck.app"
	})

	newEmail := "new@jobdeck.app"
	disabled := false
	err := f.service.UpdateUser(context.Background(), "tai", auth.UserUpdate{
		Email:     &newEmail,
		IsEnabled: &disabled,
	})
	require.NoError(t, err)

	stored := f.users.users["tai"]
	assert.Equal(t, "new@jobdeck.app", stored.Email)
	assert.False(t, stored.IsEnabled)
	// Role was nil in the update and must be untouched.
	assert.Equal(t, sec.RoleAdmin, stored.Role)
}

/*
TestService_SetMFA_And_MarkVerified covers the account flag toggles.
*/
func TestService_SetMFA_And_MarkVerified(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", nil)

	require.NoError(t, f.service.SetMFA(context.Background(), "tai", true))
	assert.True(t, f.users.users["tai"].IsMFA)

	require.NoError(t, f.service.MarkVerified(context.Background(), "tai"))
	assert.True(t, f.users.users["tai"].IsVerified)
}

/*
TestService_DeleteUser verifies hard deletion and the 404 on unknown names.
*/
func TestService_DeleteUser(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "tai", "s3cret-pass", nil)

	require.NoError(t, f.service.DeleteUser(context.Background(), "tai"))
	assert.NotContains(t, f.users.users, "tai")

	err := f.service.DeleteUser(context.Background(), "tai")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
