// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the auth storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows or SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] types to avoid leaking storage
// implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/jamcoin/internal/platform/apperr"
	"github.com/taibuivan/jamcoin/internal/platform/constants"
	"github.com/taibuivan/jamcoin/internal/platform/dberr"
)

// Unique constraint names declared in the migrations. Used to translate
// SQLSTATE 23505 into a field-specific Conflict message.
const (
	constraintUserEmail    = "users_email_key"
	constraintUserPhone    = "users_phone_key"
	constraintUserReferral = "users_referral_code_key"
)

// userColumns is the canonical select list for the users table.
const userColumns = `
	user_id, email, phone, password_hash, status, referral_code, referred_by,
	email_verified, phone_verified, last_login, created_at, updated_at`

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists the four per-user rows inside a single transaction.

Description: Resolves the supplied referral code to a referrer inside the same
transaction (check-then-insert; a concurrent referrer deletion between the two
is an accepted rare race), inserts users, user_profiles, user_verification,
and user_preferences, then commits. Any failure rolls the whole write back.

Parameters:
  - context: context.Context
  - registration: *Registration

Returns:
  - error: apperr.Conflict, apperr.InvalidReferralCode, or storage failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, registration *Registration) error {

	// Establish an isolated transaction so the multi-table write is atomic.
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_begin_failed: %w", err)
	}

	// Rollback is a no-op after a successful commit.
	defer transaction.Rollback(context)

	user := registration.User

	// Resolve the referrer inside the transaction.
	if registration.ReferralCode != "" {
		const referrerQuery = `SELECT user_id FROM users WHERE referral_code = $1`

		var referrerID string
		err := transaction.QueryRow(context, referrerQuery, registration.ReferralCode).Scan(&referrerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.InvalidReferralCode()
			}
			return fmt.Errorf("postgres_user_repo_referrer_lookup_failed: %w", err)
		}
		user.ReferredBy = referrerID
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	// Root identity row.
	const userQuery = `
		INSERT INTO users (
			user_id, email, phone, password_hash, status, referral_code,
			referred_by, email_verified, phone_verified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = transaction.Exec(context, userQuery,
		user.ID,
		user.Email,
		nullable(user.Phone),
		user.PasswordHash,
		user.Status,
		user.ReferralCode,
		nullable(user.ReferredBy),
		user.EmailVerified,
		user.PhoneVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return classifyUserInsertError(err)
	}

	// 1:1 profile row.
	profile := registration.Profile
	if profile.Country == "" {
		profile.Country = constants.DefaultCountry
	}

	const profileQuery = `
		INSERT INTO user_profiles (
			user_id, first_name, last_name, date_of_birth, address_line1,
			address_line2, city, parish, postal_code, country, occupation, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = transaction.Exec(context, profileQuery,
		user.ID,
		profile.FirstName,
		profile.LastName,
		profile.DateOfBirth,
		nullable(profile.AddressLine1),
		nullable(profile.AddressLine2),
		nullable(profile.City),
		nullable(profile.Parish),
		nullable(profile.PostalCode),
		profile.Country,
		nullable(profile.Occupation),
		now,
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_profile_insert_failed: %w", err)
	}

	// 1:1 verification row.
	verification := registration.Verification

	const verificationQuery = `
		INSERT INTO user_verification (user_id, kyc_status, verification_level)
		VALUES ($1, $2, $3)`

	_, err = transaction.Exec(context, verificationQuery,
		user.ID,
		verification.KYCStatus,
		verification.Level,
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_verification_insert_failed: %w", err)
	}

	// 1:1 preferences row.
	preferences := registration.Preferences

	const preferencesQuery = `
		INSERT INTO user_preferences (
			user_id, notification_email, notification_sms, notification_push,
			trading_limit_daily, trading_limit_monthly, two_factor_enabled,
			preferred_currency, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = transaction.Exec(context, preferencesQuery,
		user.ID,
		preferences.NotificationEmail,
		preferences.NotificationSMS,
		preferences.NotificationPush,
		preferences.TradingLimitDaily,
		preferences.TradingLimitMonthly,
		preferences.TwoFactorEnabled,
		preferences.PreferredCurrency,
		now,
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_preferences_insert_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_user_repo_commit_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: The match is case-sensitive; normalization is a transport-layer
decision, not a storage one.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`
	return repository.findOne(context, query, email)
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE user_id = $1`
	return repository.findOne(context, query, id)
}

/*
FindByPhone retrieves a user record by their unique phone number.

Parameters:
  - context: context.Context
  - phone: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByPhone(context context.Context, phone string) (*User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE phone = $1`
	return repository.findOne(context, query, phone)
}

/*
FindByReferralCode retrieves the user owning the given referral code.

Parameters:
  - context: context.Context
  - code: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByReferralCode(context context.Context, code string) (*User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE referral_code = $1`
	return repository.findOne(context, query, code)
}

/*
VerificationLevel returns the current KYC verification level for a user.

Description: A missing verification row degrades to level 0 rather than
failing — level 0 is the semantic equivalent of "not verified".

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - int: Verification level (0-3)
  - error: Database errors
*/
func (repository *PostgresUserRepository) VerificationLevel(context context.Context, userID string) (int, error) {
	const query = `SELECT verification_level FROM user_verification WHERE user_id = $1`

	var level int
	err := repository.pool.QueryRow(context, query, userID).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("postgres_user_repo_verification_level_failed: %w", err)
	}

	return level, nil
}

/*
UpdateLastLogin stamps the account's last_login timestamp to now.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresUserRepository) UpdateLastLogin(context context.Context, userID string) error {
	const query = `UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE user_id = $1`

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_user_repo_last_login_failed: %w", err)
	}

	return nil
}

// findOne executes a single-row user query and hydrates the entity.
func (repository *PostgresUserRepository) findOne(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	var phone, referredBy *string
	var lastLogin *time.Time

	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Email,
		&phone,
		&user.PasswordHash,
		&user.Status,
		&user.ReferralCode,
		&referredBy,
		&user.EmailVerified,
		&user.PhoneVerified,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	if phone != nil {
		user.Phone = *phone
	}
	if referredBy != nil {
		user.ReferredBy = *referredBy
	}
	user.LastLoginAt = lastLogin

	return user, nil
}

// classifyUserInsertError maps a failed users-row insert to the API taxonomy.
func classifyUserInsertError(err error) error {
	switch {
	case dberr.IsUniqueViolation(err, constraintUserEmail):
		return apperr.Conflict("Email is already registered")
	case dberr.IsUniqueViolation(err, constraintUserPhone):
		return apperr.Conflict("Phone number is already registered")
	case dberr.IsUniqueViolation(err, constraintUserReferral):
		// The generated referral code raced another registration.
		return ErrReferralCodeTaken
	default:
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}
}

// nullable converts an empty string into a SQL NULL.
func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
