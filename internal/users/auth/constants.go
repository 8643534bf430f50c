// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a refresh token remains valid. The
	// Redis registry entry carries the same TTL so both expire together.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// # Referral Codes

const (
	// ReferralCodeLength is the standard referral code size.
	ReferralCodeLength = 8

	// ReferralCodeFallbackLength is used after repeated collisions; the
	// larger space makes a further collision practically impossible.
	ReferralCodeFallbackLength = 12

	// ReferralCodeMaxAttempts bounds the uniqueness retry loop before
	// falling back to the larger code space.
	ReferralCodeMaxAttempts = 5

	// referralCodeCharset is the fixed alphabet for referral codes.
	referralCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// # New Account Defaults

const (
	// DefaultTradingLimitDaily caps unverified accounts, in the preferred
	// currency. Raised through KYC, not through preferences.
	DefaultTradingLimitDaily = 50_000.00

	// DefaultTradingLimitMonthly is the matching monthly cap.
	DefaultTradingLimitMonthly = 500_000.00
)
