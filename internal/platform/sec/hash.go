// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinHashCost is the lowest bcrypt work factor the platform accepts.
// Anything below it is silently raised to this floor.
const MinHashCost = 10

// HashPassword hashes a plain-text password using the bcrypt algorithm with
// the given work factor.
func HashPassword(plainTextPassword string, cost int) (string, error) {
	if cost < MinHashCost {
		cost = MinHashCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// A mismatch is reported as false, never as an error.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
