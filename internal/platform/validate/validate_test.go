// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/jamcoin/internal/platform/apperr"
	"github.com/taibuivan/jamcoin/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "firstName", "Nadia", false},
		{"empty_string", "firstName", "", true},
		{"whitespace_only", "firstName", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Phone checks the E.164 phone rule, including the optional-field
behavior where an empty value passes.
*/
func TestValidator_Phone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		isValid bool
	}{
		{"empty_is_optional", "", true},
		{"jamaican_mobile", "+18765551234", true},
		{"digits_only", "18765551234", true},
		{"too_short", "+1234", false},
		{"letters", "+1876call-me", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Phone("phone", tt.phone)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_ReferralCode checks the referral code format rule. Both the
standard 8-character and the 12-character fallback formats are accepted.
*/
func TestValidator_ReferralCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		isValid bool
	}{
		{"empty_is_optional", "", true},
		{"standard_length", "AB12CD34", true},
		{"fallback_length", "AB12CD34EF56", true},
		{"lowercase", "ab12cd34", false},
		{"too_short", "AB12", false},
		{"odd_length", "AB12CD345", false},
		{"symbols", "AB12CD3!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.ReferralCode("referralCode", tt.code)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("email", "nadia@example.com").
		Email("email", "nadia@example.com").
		Required("password", "").
		MinLen("password", "", 8).
		Err()

	require.NotNil(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Both failing rules hit the same field; each contributes a detail.
	assert.Len(t, ae.Details, 2)
	for _, detail := range ae.Details {
		assert.Equal(t, "password", detail.Field)
	}
}

/*
TestValidator_LengthRules exercises MinLen and MaxLen with Unicode input.
*/
func TestValidator_LengthRules(t *testing.T) {
	t.Run("max_len_counts_runes", func(t *testing.T) {
		v := &validate.Validator{}
		v.MaxLen("city", "Ochos Ríos", 10)
		assert.False(t, v.HasErrors())
	})

	t.Run("max_len_exceeded", func(t *testing.T) {
		v := &validate.Validator{}
		v.MaxLen("city", "Saint Andrew Parish", 10)
		assert.True(t, v.HasErrors())
	})

	t.Run("min_len_enforced", func(t *testing.T) {
		v := &validate.Validator{}
		v.MinLen("password", "short", 8)
		assert.True(t, v.HasErrors())
	})
}

/*
TestRequiredError checks the single-field error shortcut.
*/
func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("refreshToken", "This field is required")

	require.NotNil(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	require.Len(t, err.Details, 1)
	assert.Equal(t, "refreshToken", err.Details[0].Field)
}
