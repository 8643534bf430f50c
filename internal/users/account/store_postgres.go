// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/jamcoin/internal/platform/apperr"
	"github.com/taibuivan/jamcoin/internal/platform/dberr"
)

// # Profile Repository

// PostgresProfileRepository implements the ProfileRepository interface using pgx.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL implementation of the ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

/*
FindFull loads the joined profile view across the four per-user tables.

Description: The three satellite tables are created in the same transaction
as the users row, so inner joins are safe; a missing users row maps to
apperr.NotFound.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - *FullProfile: The joined read model
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresProfileRepository) FindFull(ctx context.Context, userID string) (*FullProfile, error) {
	const query = `
		SELECT
			u.user_id, u.email, u.phone, u.status, u.referral_code,
			u.email_verified, u.phone_verified, u.last_login, u.created_at,
			p.first_name, p.last_name, p.date_of_birth, p.address_line1,
			p.address_line2, p.city, p.parish, p.postal_code, p.country, p.occupation,
			v.kyc_status, v.verification_level,
			pr.notification_email, pr.notification_sms, pr.notification_push,
			pr.trading_limit_daily, pr.trading_limit_monthly,
			pr.two_factor_enabled, pr.preferred_currency
		FROM users u
		JOIN user_profiles p ON p.user_id = u.user_id
		JOIN user_verification v ON v.user_id = u.user_id
		JOIN user_preferences pr ON pr.user_id = u.user_id
		WHERE u.user_id = $1`

	full := &FullProfile{}
	var (
		phone, addressLine1, addressLine2, city, parish *string
		postalCode, occupation                          *string
		lastLogin, dateOfBirth                          *time.Time
	)

	err := repository.pool.QueryRow(ctx, query, userID).Scan(
		&full.UserID,
		&full.Email,
		&phone,
		&full.Status,
		&full.ReferralCode,
		&full.EmailVerified,
		&full.PhoneVerified,
		&lastLogin,
		&full.CreatedAt,
		&full.Profile.FirstName,
		&full.Profile.LastName,
		&dateOfBirth,
		&addressLine1,
		&addressLine2,
		&city,
		&parish,
		&postalCode,
		&full.Profile.Country,
		&occupation,
		&full.Verification.KYCStatus,
		&full.Verification.Level,
		&full.Preferences.NotificationEmail,
		&full.Preferences.NotificationSMS,
		&full.Preferences.NotificationPush,
		&full.Preferences.TradingLimitDaily,
		&full.Preferences.TradingLimitMonthly,
		&full.Preferences.TwoFactorEnabled,
		&full.Preferences.PreferredCurrency,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	full.Phone = deref(phone)
	full.LastLoginAt = lastLogin
	full.Profile.DateOfBirth = dateOfBirth
	full.Profile.AddressLine1 = deref(addressLine1)
	full.Profile.AddressLine2 = deref(addressLine2)
	full.Profile.City = deref(city)
	full.Profile.Parish = deref(parish)
	full.Profile.PostalCode = deref(postalCode)
	full.Profile.Occupation = deref(occupation)

	return full, nil
}

/*
UpdateProfile applies the non-nil fields of the input to user_profiles.

Description: Builds the SET clause from the input's allow-list only; the
caller guarantees at least one field is set. The date of birth arrives as a
validated ISO date string and is cast by PostgreSQL.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresProfileRepository) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) error {
	builder := updateBuilder{}
	set(&builder, "first_name", input.FirstName)
	set(&builder, "last_name", input.LastName)
	setExpr(&builder, "date_of_birth", "::date", input.DateOfBirth)
	set(&builder, "address_line1", input.AddressLine1)
	set(&builder, "address_line2", input.AddressLine2)
	set(&builder, "city", input.City)
	set(&builder, "parish", input.Parish)
	set(&builder, "postal_code", input.PostalCode)
	set(&builder, "occupation", input.Occupation)

	return repository.execUpdate(ctx, "user_profiles", userID, builder)
}

/*
UpdatePreferences applies the non-nil fields of the input to user_preferences.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: UpdatePreferencesInput

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresProfileRepository) UpdatePreferences(ctx context.Context, userID string, input UpdatePreferencesInput) error {
	builder := updateBuilder{}
	set(&builder, "notification_email", input.NotificationEmail)
	set(&builder, "notification_sms", input.NotificationSMS)
	set(&builder, "notification_push", input.NotificationPush)
	set(&builder, "two_factor_enabled", input.TwoFactorEnabled)
	set(&builder, "preferred_currency", input.PreferredCurrency)

	return repository.execUpdate(ctx, "user_preferences", userID, builder)
}

// execUpdate runs the built partial UPDATE against the given table.
func (repository *PostgresProfileRepository) execUpdate(ctx context.Context, table, userID string, builder updateBuilder) error {
	query, args := builder.Query(table, userID)

	tag, err := repository.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// updateBuilder accumulates SET assignments for a partial UPDATE. Column
// names come from compile-time allow-lists, never from the request.
type updateBuilder struct {
	assignments []string
	args        []any
}

// set adds "column = $n" when the value pointer is non-nil.
func set[T any](b *updateBuilder, column string, value *T) {
	setExpr(b, column, "", value)
}

// setExpr adds "column = $n<cast>" when the value pointer is non-nil.
func setExpr[T any](b *updateBuilder, column, cast string, value *T) {
	if value == nil {
		return
	}
	b.args = append(b.args, *value)
	b.assignments = append(b.assignments, fmt.Sprintf("%s = $%d%s", column, len(b.args), cast))
}

// Query renders the final UPDATE statement keyed on user_id.
func (b *updateBuilder) Query(table, userID string) (string, []any) {
	b.args = append(b.args, userID)
	query := fmt.Sprintf(
		"UPDATE %s SET %s, updated_at = CURRENT_TIMESTAMP WHERE user_id = $%d",
		table,
		strings.Join(b.assignments, ", "),
		len(b.args),
	)
	return query, b.args
}

// deref converts a SQL NULL back into an empty string.
func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
