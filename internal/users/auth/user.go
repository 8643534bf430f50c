// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session-token layer.

It defines the core domain entities (User, Profile, Verification, Preferences)
and logic for registration, authentication, token rotation, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Account Lifecycle

// Status represents the lifecycle state of a user account.
type Status string

const (
	// Freshly registered, KYC not started
	StatusPending Status = "pending"

	// Fully enabled account
	StatusActive Status = "active"

	// Temporarily blocked by compliance or support
	StatusSuspended Status = "suspended"

	// Permanently closed, retained for audit
	StatusClosed Status = "closed"
)

// CanLogin reports whether an account in this status may establish a session.
// Pending accounts may log in so they can complete KYC; suspended and closed
// accounts may not.
func (s Status) CanLogin() bool {
	return s == StatusActive || s == StatusPending
}

// KYCStatus represents the progress of identity verification.
type KYCStatus string

const (
	KYCNone     KYCStatus = "none"
	KYCPending  KYCStatus = "pending"
	KYCInReview KYCStatus = "in_review"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

// # Domain Entities

// User represents a registered member of the JamCoin platform.
type User struct {
	ID            string     `json:"user_id"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	PasswordHash  string     `json:"-"` // Explicitly omitted from JSON for security.
	Status        Status     `json:"status"`
	ReferralCode  string     `json:"referral_code"`
	ReferredBy    string     `json:"referred_by,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
	LastLoginAt   *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Profile holds the 1:1 personal details attached to a User.
type Profile struct {
	UserID       string     `json:"user_id"`
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
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Verification holds the 1:1 KYC state attached to a User.
//
// The verification level (0-3) gates access to higher-risk operations and is
// stamped into every issued token.
type Verification struct {
	UserID              string     `json:"user_id"`
	KYCStatus           KYCStatus  `json:"kyc_status"`
	Level               int        `json:"verification_level"`
	DocumentsUploadedAt *time.Time `json:"documents_uploaded_at,omitempty"`
	DocumentsVerifiedAt *time.Time `json:"documents_verified_at,omitempty"`
	Notes               string     `json:"verification_notes,omitempty"`
}

// Preferences holds the 1:1 notification and trading settings attached to a User.
type Preferences struct {
	UserID              string    `json:"user_id"`
	NotificationEmail   bool      `json:"notification_email"`
	NotificationSMS     bool      `json:"notification_sms"`
	NotificationPush    bool      `json:"notification_push"`
	TradingLimitDaily   float64   `json:"trading_limit_daily"`
	TradingLimitMonthly float64   `json:"trading_limit_monthly"`
	TwoFactorEnabled    bool      `json:"two_factor_enabled"`
	PreferredCurrency   string    `json:"preferred_currency"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldPhone        = "phone"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldReferralCode = "referral_code"
	FieldRefreshToken = "refresh_token"
)
