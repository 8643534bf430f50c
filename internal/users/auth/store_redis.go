// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/jamcoin/internal/platform/constants"
)

// # Refresh Token Repository

// RedisRefreshTokenRepository keeps the single live refresh token per user
// under refresh_token:<userID>, with the key TTL matching the token's own
// lifetime.
type RedisRefreshTokenRepository struct {
	client *redis.Client
}

// NewRefreshTokenRepository creates the Redis-backed refresh token store.
func NewRefreshTokenRepository(client *redis.Client) *RedisRefreshTokenRepository {
	return &RedisRefreshTokenRepository{client: client}
}

/*
Rotate stores the user's refresh token, overwriting any previous one.

Description: A plain SET with expiry makes the overwrite atomic; the old
token dies the moment the new one lands.

Parameters:
  - ctx: context.Context
  - userID: string
  - token: string
  - ttl: time.Duration

Returns:
  - error: Store connectivity failures
*/
func (repository *RedisRefreshTokenRepository) Rotate(ctx context.Context, userID, token string, ttl time.Duration) error {
	key := constants.RedisPrefixRefreshToken + userID

	if err := repository.client.Set(ctx, key, token, ttl).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_set_failed: %w", err)
	}

	return nil
}

/*
Get returns the user's stored refresh token.

Description: An absent key returns an empty token with a nil error, so the
caller can distinguish "no live session" (reject with 401) from a store
outage (fail with 5xx).

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - string: The stored token, or empty when none exists
  - error: Store connectivity failures
*/
func (repository *RedisRefreshTokenRepository) Get(ctx context.Context, userID string) (string, error) {
	key := constants.RedisPrefixRefreshToken + userID

	token, err := repository.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis_refresh_token_get_failed: %w", err)
	}

	return token, nil
}

/*
Revoke deletes the user's stored refresh token.

Description: Deleting a key that does not exist is a success, which makes
logout idempotent.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - error: Store connectivity failures
*/
func (repository *RedisRefreshTokenRepository) Revoke(ctx context.Context, userID string) error {
	key := constants.RedisPrefixRefreshToken + userID

	if err := repository.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_del_failed: %w", err)
	}

	return nil
}
