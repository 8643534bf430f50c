// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/jamcoin/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies hashing and verification of a password.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple", sec.MinHashCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
}

/*
TestHashPassword_CostFloor ensures a below-floor cost is raised rather than
producing a weak hash.
*/
func TestHashPassword_CostFloor(t *testing.T) {
	hash, err := sec.HashPassword("password123!", 4)
	require.NoError(t, err)

	// bcrypt hashes embed the cost as $2a$NN$...
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), "expected cost raised to the floor, got %s", hash[:7])
}

/*
TestHashPassword_DistinctSalts confirms the same password never hashes to the
same value twice.
*/
func TestHashPassword_DistinctSalts(t *testing.T) {
	first, err := sec.HashPassword("same password", sec.MinHashCost)
	require.NoError(t, err)

	second, err := sec.HashPassword("same password", sec.MinHashCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestCheckPasswordHash_InvalidHash ensures a corrupt stored hash fails closed.
*/
func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("anything", ""))
}
