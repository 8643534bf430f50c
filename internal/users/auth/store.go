// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// # User Data Access

// ErrReferralCodeTaken reports that the generated referral code collided
// with an existing row, losing a race the uniqueness pre-check could not
// see. The service regenerates the code and retries.
var ErrReferralCodeTaken = errors.New("generated referral code already taken")

// Registration bundles the four records created together for a new user.
// The repository persists all of them inside a single transaction.
type Registration struct {
	User         *User
	Profile      Profile
	Verification Verification
	Preferences  Preferences

	// ReferralCode is the code supplied by the registrant, if any. The
	// repository resolves it to a referrer inside the same transaction and
	// fails the whole write when it matches no user.
	ReferralCode string
}

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a new user with its profile, verification, and
		preferences rows in one transaction.

		Description: Either all four rows exist afterwards or none do. A
		uniqueness violation on email/phone surfaces as apperr.Conflict; a
		collision on the generated referral code as [ErrReferralCodeTaken];
		an unresolvable supplied referral code as apperr.InvalidReferralCode.

		Parameters:
		  - context: context.Context
		  - registration: *Registration

		Returns:
		  - error: Conflict, ErrReferralCodeTaken, InvalidReferralCode, or
		    storage failures
	*/
	Create(context context.Context, registration *Registration) error

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string (case-sensitive match)

		Returns:
		  - *User: Hydrated entity including the password hash
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByPhone returns the account with the given phone number.

		Parameters:
		  - context: context.Context
		  - phone: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByPhone(context context.Context, phone string) (*User, error)

	/*
		FindByReferralCode returns the account owning the given referral code.

		Parameters:
		  - context: context.Context
		  - code: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByReferralCode(context context.Context, code string) (*User, error)

	/*
		VerificationLevel returns the current KYC level (0-3) for a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - int: Verification level, 0 when no row exists
		  - error: Database retrieval failures
	*/
	VerificationLevel(context context.Context, userID string) (int, error)

	/*
		UpdateLastLogin stamps the account's last_login to now.

		Description: Best-effort — callers may ignore the error without
		failing the surrounding login flow.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateLastLogin(context context.Context, userID string) error
}

// # Refresh Token Registry

// RefreshTokenRepository defines the contract for the volatile, single-slot
// refresh-token registry.
//
// # Invariant
//
// At most one live refresh token per user: Rotate unconditionally overwrites
// the prior value, which implicitly invalidates it.
type RefreshTokenRepository interface {

	/*
		Rotate stores token as the user's only valid refresh token.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - token: string (signed refresh JWT)
		  - ttl: time.Duration (mirrors the token's own expiry)

		Returns:
		  - error: Persistence failures
	*/
	Rotate(context context.Context, userID string, token string, ttl time.Duration) error

	/*
		Get retrieves the currently stored refresh token for a user.

		Description: An absent entry is NOT an error — it returns an empty
		string, which callers treat as "no valid token". Only store
		connectivity failures return an error.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - string: Stored token, or "" when none exists
		  - error: Connectivity failures only
	*/
	Get(context context.Context, userID string) (string, error)

	/*
		Revoke deletes the stored refresh token. Idempotent — deleting an
		absent entry is a successful no-op.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Connectivity failures only
	*/
	Revoke(context context.Context, userID string) error
}
