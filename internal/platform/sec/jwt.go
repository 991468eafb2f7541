// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, OTP
// generation) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Errors

var (
	// ErrTokenMissing is returned when no token string was supplied at all.
	ErrTokenMissing = errors.New("sec: token missing")

	// ErrTokenInvalid is returned when the signature does not verify, the
	// payload is malformed, the token is expired, or the subject is absent.
	ErrTokenInvalid = errors.New("sec: token invalid")
)

// AuthClaims represents the payload embedded inside a JWT access token.
//
// # Why so small?
//
// The subject claim carries the username — the single identity key of the
// system. Validation is stateless: nothing here is ever read back from
// storage, so the payload stays minimal.
type AuthClaims struct {
	jwt.RegisteredClaims
}

// Username returns the account identity asserted by the token.
func (claims *AuthClaims) Username() string {
	return claims.Subject
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// The signing secret is injected at construction and treated as immutable,
// read-only shared state for the process lifetime.
type TokenService struct {
	secret     []byte
	issuer     string
	defaultTTL time.Duration
}

// NewTokenService creates a new TokenService with an HMAC signing secret.
//
// # Parameters
//   - secret: The process-wide HMAC key (from configuration, never a literal).
//   - issuer: The standard 'iss' claim for issued tokens.
//   - defaultTTL: Token lifetime applied when the caller passes ttl <= 0.
func NewTokenService(secret, issuer string, defaultTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret must not be empty")
	}

	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		defaultTTL: defaultTTL,
	}, nil
}

// GenerateAccessToken creates a new signed JWT asserting the given username.
//
// The subject claim carries the username; expiry is now + timeToLive
// (or the configured default when timeToLive <= 0).
func (service *TokenService) GenerateAccessToken(username string, timeToLive time.Duration) (string, error) {
	if timeToLive <= 0 {
		timeToLive = service.defaultTTL
	}

	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// # Failure Modes
//   - [ErrTokenMissing]: empty token string.
//   - [ErrTokenInvalid]: bad signature, malformed payload, expired token,
//     or absent subject claim. Expiry is enforced by the jwt library as
//     part of claim validation.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	// A token without a subject asserts no identity at all.
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
