// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"

	"github.com/taibuivan/jobdeck/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Jobdeck platform.
//
// # Identity
//
// The username is the unique key and is immutable once created. The password
// hash is never stored or logged in plaintext and is omitted from JSON.
type User struct {
	Username     string       `json:"username"`
	Email        string       `json:"email,omitempty"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	IsMFA        bool         `json:"is_mfa"`
	IsEnabled    bool         `json:"is_enabled"`
	IsVerified   bool         `json:"is_verified"`
	IsDeleted    bool         `json:"is_deleted"`

	// OTP mirrors the last one-time code persisted on the record. The
	// authoritative copy lives in the ephemeral cache; this field only
	// exists to be cleared after a successful verification.
	OTP string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenRecord is a durable audit entry for an issued (or revoked) token.
//
// # Semantics
//
// Records form an append-only log: many per user, never updated, never read
// back for validation (token validation is stateless via the codec). An empty
// Token string marks a logout/revocation event. Active is always false at
// issuance — the log is audit-only.
type TokenRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername          = "username"
	FieldEmail             = "email"
	FieldPassword          = "password"
	FieldOTP               = "otp"
	FieldOldPassword       = "old_password"
	FieldNewPassword       = "new_password"
	FieldVerifyNewPassword = "verify_new_password"
	FieldAccessToken       = "access_token"
	FieldTokenType         = "token_type"
	FieldMessage           = "msg"
	FieldDesc              = "desc"
)
