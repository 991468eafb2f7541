// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the core identity and access management system.

It handles everything from user enrollment and secure password hashing to the
OTP challenge-response flow and access-token lifecycle (issuance, caching with
TTL, invalidation on logout).

Architecture:

  - Service: Orchestrates business logic (CreateUser, Login, VerifyOTP, Logout).
  - Repository: Abstracted interfaces for Postgres (Users, Token log) and
    Redis (OTP/token cache).
  - Security: Leverages bcrypt hashing and HMAC-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/jobdeck/internal/platform/apperr"
	"github.com/taibuivan/jobdeck/internal/platform/constants"
	"github.com/taibuivan/jobdeck/internal/platform/sec"
	"github.com/taibuivan/jobdeck/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating signed access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string asserting the username.
	//
	// # Parameters
	//   - username: The subject of the token.
	//   - timeToLive: The duration before the token expires (<= 0 uses the
	//     codec's configured default).
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(username string, timeToLive time.Duration) (string, error)
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login, or
// OTP logic must be reviewed by the security team.
//
// # Concurrency
//
// The service holds no per-request mutable state; every method is safe for
// concurrent use. Two simultaneous MFA logins for the same user each write
// the OTP cache key — last write wins, by contract.
type Service struct {
	userRepository UserRepository
	tokenLog       TokenLogRepository
	cache          EphemeralCache
	notifier       NotificationSender
	tokenProvider  TokenProvider
	accessTokenTTL time.Duration
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokenLog TokenLogRepository,
	cache EphemeralCache,
	notifier NotificationSender,
	tokenProv TokenProvider,
	accessTokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		tokenLog:       tokenLog,
		cache:          cache,
		notifier:       notifier,
		tokenProvider:  tokenProv,
		accessTokenTTL: accessTokenTTL,
		logger:         logger,
	}
}

// # Cache Key Taxonomy

// otpCacheKey builds the ephemeral key for a pending OTP challenge.
// The requesting client host is part of the key, so challenges are scoped
// per origin.
func otpCacheKey(username, host string) string {
	return constants.RedisPrefixOTP + username + ":" + host
}

// tokenCacheKey builds the ephemeral key mirroring an issued access token.
func tokenCacheKey(username, host string) string {
	return constants.RedisPrefixToken + username + ":" + host
}

// # Enrollment Flow

// CreateUserInput holds the data required to enroll (or re-authenticate) a member.
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	IsMFA    bool
}

/*
CreateUser registers a new account, or verifies credentials when the
username already exists.

Description: The create endpoint doubles as a login check — an existing
username turns the call into a credential verification, failing Unauthorized
on mismatch. A new username is hashed and persisted as an enabled account.
No token is issued by this path.

Parameters:
  - context: context.Context
  - input: CreateUserInput

Returns:
  - bool: true when a new account was created, false when an existing
    account was verified
  - err: Unauthorized (existing user, wrong password) or storage errors
*/
func (service *Service) CreateUser(context context.Context, input CreateUserInput) (bool, error) {

	// Look up the username first: an existing account turns this into login.
	existing, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		if !sec.CheckPasswordHash(input.Password, existing.PasswordHash) {
			return false, apperr.Unauthorized("Incorrect username or password")
		}
		return false, nil
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return false, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. The role default mirrors the legacy
	// contract (every self-registered account is an Admin).
	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleAdmin,
		IsMFA:        input.IsMFA,
		IsEnabled:    true,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return false, fmt.Errorf("auth_service_create_user_failed: %w", err)
	}

	return true, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
	Host     string // Requesting client host, part of every cache key.
}

// LoginOutcome tags the result of a credential verification.
type LoginOutcome int

const (
	// LoginTokenIssued means credentials passed and an access token was issued.
	LoginTokenIssued LoginOutcome = iota

	// LoginOTPSent means credentials passed but the account requires a second
	// factor; a one-time code was dispatched and no token exists yet.
	LoginOTPSent
)

// LoginResult represents the outcome of a successful credential check.
type LoginResult struct {
	Outcome     LoginOutcome
	AccessToken string
	TokenType   string
}

/*
Login validates user credentials and either issues a token or starts an
OTP challenge.

Description: Verifies identity with a constant-time password comparison, then
branches on the account's MFA flag. Unknown usernames and wrong passwords
produce the same generic Unauthorized message to prevent enumeration.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Token (non-MFA) or OTP-challenge acknowledgment (MFA)
  - err: Unauthorized, BadRequest (MFA without email) or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {

	// Generic message on lookup failure to prevent username enumeration.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return nil, apperr.Unauthorized("Incorrect username or password")
	}

	// Verify password hash using bcrypt's constant-time comparison.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Incorrect username or password")
	}

	// MFA branch: dispatch a one-time code instead of a token.
	if user.IsMFA {
		if user.Email == "" {
			return nil, apperr.BadRequest(
				"MFA is enabled but no email is registered. " +
					"Please update your email in user settings for OTP verification.")
		}

		if err := service.startOTPChallenge(context, user, input.Host); err != nil {
			return nil, err
		}

		// No token and no audit record until the OTP is verified.
		return &LoginResult{Outcome: LoginOTPSent}, nil
	}

	// Non-MFA branch: issue the token immediately.
	return service.issueToken(context, user.Username, input.Host)
}

// startOTPChallenge generates an OTP, caches it under the (username, host)
// key, and dispatches it to the user's registered email.
func (service *Service) startOTPChallenge(context context.Context, user *User, host string) error {

	otp, err := sec.GenerateOTP()
	if err != nil {
		return fmt.Errorf("auth_service_otp_generation_failed: %w", err)
	}

	// Cache before dispatch: a delivered code must always be verifiable.
	if err := service.cache.SetWithTTL(context, otpCacheKey(user.Username, host), otp, OTPTTL); err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_otp_cache_failed: %w", err))
	}

	// A failed send is fatal to the caller; there is no retry policy.
	body := "Your OTP code is " + otp
	if err := service.notifier.Send(context, user.Email, "Your OTP Code", body); err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_otp_dispatch_failed: %w", err))
	}

	return nil
}

// issueToken signs a new access token, mirrors it in the ephemeral cache,
// and appends a best-effort audit record.
//
// # Partial Failure
//
// The cache write is authorization-relevant and fails the call. The audit
// append is best-effort: a failed append is logged but the caller still
// receives the (already valid) token.
func (service *Service) issueToken(context context.Context, username, host string) (*LoginResult, error) {

	accessToken, err := service.tokenProvider.GenerateAccessToken(username, service.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	if err := service.cache.SetWithTTL(context, tokenCacheKey(username, host), accessToken, TokenCacheTTL); err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_cache_failed: %w", err))
	}

	record := &TokenRecord{
		ID:       uuidv7.New(),
		Username: username,
		Token:    accessToken,
		Active:   false,
	}

	if err := service.tokenLog.Append(context, record); err != nil {
		service.logger.ErrorContext(context, "token_audit_append_failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}

	return &LoginResult{
		Outcome:     LoginTokenIssued,
		AccessToken: accessToken,
		TokenType:   TokenType,
	}, nil
}

// # OTP Verification Flow

// VerifyOTPInput defines a challenge-response attempt.
type VerifyOTPInput struct {
	Username string
	OTP      string
	Host     string
}

// OTPOutcome tags the result of an OTP verification attempt.
type OTPOutcome int

const (
	// OTPIssued means the code matched and a token was issued.
	OTPIssued OTPOutcome = iota

	// OTPExpired means no code exists for the (username, host) key — the
	// challenge aged out of the cache. This is a distinguished, non-error
	// outcome: the user must simply log in again.
	OTPExpired

	// OTPRejected means a code exists but the submitted value mismatched.
	OTPRejected
)

// OTPResult represents the outcome of an OTP verification.
type OTPResult struct {
	Outcome OTPOutcome

	// Login carries the issued token when Outcome is OTPIssued.
	Login *LoginResult
}

/*
VerifyOTP completes the multi-factor login by checking the submitted code.

Description: Reads the cached challenge for (username, host). Absence means
the code expired (a success-typed outcome, not an error); a mismatch is
rejected with no detail. On match the stored OTP mirror is cleared and a
token is issued exactly as in the non-MFA login branch.

Parameters:
  - context: context.Context
  - input: VerifyOTPInput

Returns:
  - *OTPResult: Issued | Expired | Rejected
  - err: NotFound (unknown user) or internal failures
*/
func (service *Service) VerifyOTP(context context.Context, input VerifyOTPInput) (*OTPResult, error) {

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	cachedOTP, err := service.cache.Get(context, otpCacheKey(input.Username, input.Host))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			// Expired, not invalid — the caller gets a distinct outcome.
			return &OTPResult{Outcome: OTPExpired}, nil
		}
		return nil, apperr.Internal(fmt.Errorf("auth_service_otp_read_failed: %w", err))
	}

	// Deliberately opaque: no detail on which part mismatched.
	if cachedOTP != input.OTP {
		return &OTPResult{Outcome: OTPRejected}, nil
	}

	// Clear the persisted OTP mirror after successful verification.
	user.OTP = ""
	if err := service.userRepository.Save(context, user); err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_otp_clear_failed: %w", err))
	}

	login, err := service.issueToken(context, user.Username, input.Host)
	if err != nil {
		return nil, err
	}

	return &OTPResult{Outcome: OTPIssued, Login: login}, nil
}

// # Session Termination

/*
Logout terminates the user's session.

Description: Marks the account soft-deleted and appends a revocation marker
(empty token string) to the audit log. Both writes are mandatory — either
failure surfaces as an internal error.

Parameters:
  - context: context.Context
  - username: string (from the verified token's subject)

Returns:
  - err: NotFound or internal failures
*/
func (service *Service) Logout(context context.Context, username string) error {

	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return apperr.NotFound("User")
	}

	// Logout soft-deletes the account. Preserved legacy behavior: the flag
	// lives on the user record, not on a per-session row.
	user.IsDeleted = true
	if err := service.userRepository.Save(context, user); err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_logout_save_failed: %w", err))
	}

	record := &TokenRecord{
		ID:       uuidv7.New(),
		Username: username,
		Token:    "", // Revocation marker.
		Active:   false,
	}

	if err := service.tokenLog.Append(context, record); err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_logout_audit_failed: %w", err))
	}

	return nil
}

// # Password Management

// ChangePasswordInput defines an authenticated password rotation.
type ChangePasswordInput struct {
	Username          string
	OldPassword       string
	NewPassword       string
	VerifyNewPassword string
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password, requires the new password to be
confirmed, then re-hashes and persists.

Parameters:
  - context: context.Context
  - input: ChangePasswordInput

Returns:
  - err: NotFound, Unauthorized (wrong old password), BadRequest
    (confirmation mismatch), or storage failures
*/
func (service *Service) ChangePassword(context context.Context, input ChangePasswordInput) error {

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return apperr.NotFound("User")
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(input.OldPassword, user.PasswordHash) {
		return apperr.Unauthorized("Incorrect old password")
	}

	if input.NewPassword != input.VerifyNewPassword {
		return apperr.BadRequest("New password and verify new password do not match")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, user.Username, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Account Administration

/*
SetMFA enables or disables multi-factor login for an account.

Parameters:
  - context: context.Context
  - username: string
  - enabled: bool

Returns:
  - err: NotFound or storage failures
*/
func (service *Service) SetMFA(context context.Context, username string, enabled bool) error {

	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return apperr.NotFound("User")
	}

	user.IsMFA = enabled
	if err := service.userRepository.Save(context, user); err != nil {
		return fmt.Errorf("auth_service_set_mfa_failed: %w", err)
	}

	return nil
}

/*
MarkVerified flags the token-bearer's account as verified.

Parameters:
  - context: context.Context
  - username: string (from the verified token's subject)

Returns:
  - err: NotFound or storage failures
*/
func (service *Service) MarkVerified(context context.Context, username string) error {

	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return apperr.NotFound("User")
	}

	user.IsVerified = true
	if err := service.userRepository.Save(context, user); err != nil {
		return fmt.Errorf("auth_service_mark_verified_failed: %w", err)
	}

	return nil
}

// UserUpdate is the explicit partial-update surface for account records.
//
// # Why named optional fields?
//
// Every mutable field is enumerated here — there is no generic patch map, so
// the update surface stays statically checkable.
type UserUpdate struct {
	Email     *string
	Role      *sec.UserRole
	IsEnabled *bool
}

/*
UpdateUser applies an explicit partial update to an account.

Parameters:
  - context: context.Context
  - username: string
  - update: UserUpdate

Returns:
  - err: NotFound or storage failures
*/
func (service *Service) UpdateUser(context context.Context, username string, update UserUpdate) error {

	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return apperr.NotFound("User")
	}

	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.IsEnabled != nil {
		user.IsEnabled = *update.IsEnabled
	}

	if err := service.userRepository.Save(context, user); err != nil {
		return fmt.Errorf("auth_service_update_user_failed: %w", err)
	}

	return nil
}

/*
GetUser returns a single account by username.

Returns:
  - *User: Hydrated entity
  - err: NotFound or retrieval failures
*/
func (service *Service) GetUser(context context.Context, username string) (*User, error) {
	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

/*
ListUsers returns a page of accounts plus the total count.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*User: Page of accounts
  - int: Total account count
  - err: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context, limit, offset int) ([]*User, int, error) {

	users, err := service.userRepository.List(context, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("auth_service_list_users_failed: %w", err)
	}

	total, err := service.userRepository.Count(context)
	if err != nil {
		return nil, 0, fmt.Errorf("auth_service_count_users_failed: %w", err)
	}

	return users, total, nil
}

/*
DeleteUser physically removes an account.

Returns:
  - err: NotFound or storage failures
*/
func (service *Service) DeleteUser(context context.Context, username string) error {

	// Resolve first so an unknown username maps to a clean 404.
	if _, err := service.userRepository.FindByUsername(context, username); err != nil {
		return apperr.NotFound("User")
	}

	if err := service.userRepository.Delete(context, username); err != nil {
		return fmt.Errorf("auth_service_delete_user_failed: %w", err)
	}

	return nil
}
