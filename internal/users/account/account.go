// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package account serves the authenticated user's own profile and
// preferences: a joined read across the per-user tables, plus allow-listed
// partial updates.
package account

import "time"

// FullProfile is the read model for GET /users/profile: the users row joined
// with its profile, verification, and preferences rows.
type FullProfile struct {
	UserID        string     `json:"user_id"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	Status        string     `json:"status"`
	ReferralCode  string     `json:"referral_code"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
	LastLoginAt   *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	Profile      ProfileView      `json:"profile"`
	Verification VerificationView `json:"verification"`
	Preferences  PreferencesView  `json:"preferences"`
}

// ProfileView is the personal-details section of the full profile.
type ProfileView struct {
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	AddressLine1 string     `json:"address_line1,omitempty"`
	AddressLine2 string     `json:"address_line2,omitempty"`
	City         string     `json:"city,omitempty"`
	Parish       string     `json:"parish,omitempty"`
	PostalCode   string     `json:"postal_code,omitempty"`
	Country      string     `json:"country"`
	Occupation   string     `json:"occupation,omitempty"`
}

// VerificationView is the KYC section of the full profile.
type VerificationView struct {
	KYCStatus string `json:"kyc_status"`
	Level     int    `json:"verification_level"`
}

// PreferencesView is the settings section of the full profile.
type PreferencesView struct {
	NotificationEmail   bool    `json:"notification_email"`
	NotificationSMS     bool    `json:"notification_sms"`
	NotificationPush    bool    `json:"notification_push"`
	TradingLimitDaily   float64 `json:"trading_limit_daily"`
	TradingLimitMonthly float64 `json:"trading_limit_monthly"`
	TwoFactorEnabled    bool    `json:"two_factor_enabled"`
	PreferredCurrency   string  `json:"preferred_currency"`
}

// UpdateProfileInput is the allow-list for PUT /users/profile. Nil fields
// are untouched; identity fields (email, status, referral code) are not on
// this list and cannot be written through it.
type UpdateProfileInput struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	DateOfBirth  *string `json:"dateOfBirth"`
	AddressLine1 *string `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         *string `json:"city"`
	Parish       *string `json:"parish"`
	PostalCode   *string `json:"postalCode"`
	Occupation   *string `json:"occupation"`
}

// Empty reports whether no field was supplied at all.
func (input UpdateProfileInput) Empty() bool {
	return input.FirstName == nil &&
		input.LastName == nil &&
		input.DateOfBirth == nil &&
		input.AddressLine1 == nil &&
		input.AddressLine2 == nil &&
		input.City == nil &&
		input.Parish == nil &&
		input.PostalCode == nil &&
		input.Occupation == nil
}

// UpdatePreferencesInput is the allow-list for PUT /users/preferences.
// Trading limits and verification state are operator-managed and therefore
// absent from this list.
type UpdatePreferencesInput struct {
	NotificationEmail *bool   `json:"notificationEmail"`
	NotificationSMS   *bool   `json:"notificationSms"`
	NotificationPush  *bool   `json:"notificationPush"`
	TwoFactorEnabled  *bool   `json:"twoFactorEnabled"`
	PreferredCurrency *string `json:"preferredCurrency"`
}

// Empty reports whether no field was supplied at all.
func (input UpdatePreferencesInput) Empty() bool {
	return input.NotificationEmail == nil &&
		input.NotificationSMS == nil &&
		input.NotificationPush == nil &&
		input.TwoFactorEnabled == nil &&
		input.PreferredCurrency == nil
}
