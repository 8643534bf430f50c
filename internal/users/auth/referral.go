// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewReferralCode generates a random referral code of the given length drawn
// from the fixed uppercase alphanumeric alphabet.
//
// # Uniqueness
//
// The generator alone does NOT guarantee uniqueness — collision probability
// over an 8-character space is non-zero. Callers must verify the code against
// the store and retry, which [Service.uniqueReferralCode] does with a bounded
// loop and a larger fallback space.
func NewReferralCode(length int) (string, error) {
	if length <= 0 {
		length = ReferralCodeLength
	}

	alphabetSize := big.NewInt(int64(len(referralCodeCharset)))
	code := make([]byte, length)

	for i := range code {
		// crypto/rand keeps codes unguessable; referral codes are shared
		// publicly, but predictable sequences would leak signup volume.
		index, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("auth_referral_code_entropy_failed: %w", err)
		}
		code[i] = referralCodeCharset[index.Int64()]
	}

	return string(code), nil
}
