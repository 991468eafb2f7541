// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// # One-Time Passwords

const (
	// otpMin and otpMax bound the numeric OTP range (inclusive).
	// The wide range is a legacy contract: codes are 3 to 6 digits.
	otpMin = 111
	otpMax = 999999
)

// GenerateOTP produces a numeric one-time code in [111, 999999] as a string.
//
// # Randomness
//
// Codes are drawn from crypto/rand. The generator is stateless and memoryless
// between calls — no collision avoidance is attempted, since every code is
// scoped to a (username, host) cache key with a short TTL.
func GenerateOTP() (string, error) {
	span := big.NewInt(otpMax - otpMin + 1)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate OTP: %w", err)
	}

	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}
