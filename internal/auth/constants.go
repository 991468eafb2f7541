// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// OTPTTL is how long a one-time code stays valid in the ephemeral cache.
	// Short (2 minutes) because the code travels over email in cleartext.
	OTPTTL = 120 * time.Second

	// TokenCacheTTL is how long an issued access token is mirrored in the
	// ephemeral cache as a secondary session store (30 minutes).
	TokenCacheTTL = 1800 * time.Second

	// TokenType is the token_type value returned with every issued token.
	TokenType = "bearer"
)
