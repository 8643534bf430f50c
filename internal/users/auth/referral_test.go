// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestNewReferralCode_Format verifies length and alphabet for both the standard
and fallback sizes.
*/
func TestNewReferralCode_Format(t *testing.T) {
	format := regexp.MustCompile(`^[A-Z0-9]+$`)

	tests := []struct {
		name   string
		length int
	}{
		{"standard", ReferralCodeLength},
		{"fallback", ReferralCodeFallbackLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := NewReferralCode(tt.length)
			require.NoError(t, err)
			assert.Len(t, code, tt.length)
			assert.Regexp(t, format, code)
		})
	}
}

/*
TestNewReferralCode_Distribution generates a batch and checks that codes do
not repeat; with a 36^8 space, any collision in a batch this size means the
generator is broken.
*/
func TestNewReferralCode_Distribution(t *testing.T) {
	seen := make(map[string]bool, 1000)

	for i := 0; i < 1000; i++ {
		code, err := NewReferralCode(ReferralCodeLength)
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate referral code %s", code)
		seen[code] = true
	}
}
