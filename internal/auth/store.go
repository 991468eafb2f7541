// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by [EphemeralCache.Get] when the key is absent.
//
// # Why a sentinel?
//
// OTP verification must distinguish "expired" (key aged out of the cache)
// from "invalid" (key present, value mismatched). A plain error would
// collapse both into one outcome.
var ErrCacheMiss = errors.New("auth: cache miss")

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Save upserts the full mutable state of an existing account
		(MFA flag, verification, soft-delete, OTP mirror).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - username: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, username, newHash string) error

	/*
		List returns a page of accounts ordered by creation time.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*User: Hydrated entities
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*User, error)

	/*
		Count returns the total number of accounts.

		Parameters:
		  - context: context.Context

		Returns:
		  - int: Account count
		  - error: Database retrieval failures
	*/
	Count(context context.Context) (int, error)

	/*
		Delete physically removes an account.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, username string) error
}

// # Token Audit Log

// TokenLogRepository defines the append-only contract for token audit records.
//
// Records are exclusively written by the auth [Service] and never read back
// for validation.
type TokenLogRepository interface {

	/*
		Append inserts a new audit record for an issuance or revocation.

		Parameters:
		  - context: context.Context
		  - record: *TokenRecord

		Returns:
		  - error: Persistence failures
	*/
	Append(context context.Context, record *TokenRecord) error
}

// # Volatile Data Access

// EphemeralCache is the minimal capability interface over the short-lived
// key-value store holding OTPs and issued-token mirrors.
//
// Keeping the surface to two methods makes the backing store swappable and
// trivially mockable in tests.
type EphemeralCache interface {

	/*
		SetWithTTL stores a value under a key for a limited duration.
		A later write to the same key silently overwrites the earlier
		value (last-write-wins).

		Parameters:
		  - context: context.Context
		  - key: string
		  - value: string
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	SetWithTTL(context context.Context, key, value string, ttl time.Duration) error

	/*
		Get retrieves the value stored under a key.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - string: Stored value
		  - error: ErrCacheMiss when absent/expired, otherwise connectivity errors
	*/
	Get(context context.Context, key string) (string, error)
}

// # Notification Delivery

// NotificationSender delivers out-of-band messages (OTP codes) to users.
type NotificationSender interface {

	/*
		Send delivers a plain-text message to the recipient address.

		Parameters:
		  - context: context.Context
		  - to: string (recipient email)
		  - subject: string
		  - body: string

		Returns:
		  - error: Delivery failures (surfaced to the caller, never retried)
	*/
	Send(context context.Context, to, subject, body string) error
}
