// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/jamcoin/internal/platform/apperr"
	"github.com/taibuivan/jamcoin/internal/platform/constants"
	"github.com/taibuivan/jamcoin/internal/platform/ctxutil"
	"github.com/taibuivan/jamcoin/internal/platform/sec"
	"github.com/taibuivan/jamcoin/pkg/uuid"
)

// TokenProvider issues and verifies the session token pair. Satisfied by
// [sec.TokenService].
type TokenProvider interface {
	GenerateAccessToken(identity sec.Identity, ttl time.Duration) (string, error)
	GenerateRefreshToken(identity sec.Identity, ttl time.Duration) (string, error)
	VerifyRefreshToken(token string) (*sec.AuthClaims, error)
}

// PasswordHasher abstracts bcrypt so the service can be tested without
// burning real hashing cost.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	CheckPasswordHash(password, hash string) bool
}

// BcryptHasher is the production PasswordHasher backed by
// [sec.HashPassword] at a configured cost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) HashPassword(password string) (string, error) {
	return sec.HashPassword(password, h.Cost)
}

func (h BcryptHasher) CheckPasswordHash(password, hash string) bool {
	return sec.CheckPasswordHash(password, hash)
}

// AuthSession is the credential bundle returned by Register, Login, and
// Refresh. ExpiresIn carries the access-token lifetime in seconds.
type AuthSession struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// RegisterInput carries the validated registration payload into the service.
type RegisterInput struct {
	Email        string
	Password     string
	Phone        string
	FirstName    string
	LastName     string
	ReferralCode string
}

// # Service

// Service orchestrates registration, login, token refresh, and logout.
type Service struct {
	users    UserRepository
	sessions RefreshTokenRepository
	tokens   TokenProvider
	hasher   PasswordHasher
}

// NewService creates the auth service with its storage and token
// collaborators.
func NewService(users UserRepository, sessions RefreshTokenRepository, tokens TokenProvider, hasher PasswordHasher) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
	}
}

/*
Register creates a new account and opens its first session.

Description: Pre-checks email and phone uniqueness for friendly conflict
messages (the database constraints remain the source of truth under
concurrency), generates a unique referral code, hashes the password, writes
the four account rows transactionally, then issues a token pair and stores
the refresh token. The new account starts in pending status at verification
level 0.

Parameters:
  - ctx: context.Context
  - input: RegisterInput (validated by the transport layer)

Returns:
  - *AuthSession: The created user with its token pair
  - error: apperr.Conflict, apperr.InvalidReferralCode, or internal failures
*/
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthSession, error) {

	// Friendly pre-checks. A race here still fails safely on the unique
	// constraints inside Create.
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_email_check_failed: %w", err)
	}

	if input.Phone != "" {
		if _, err := s.users.FindByPhone(ctx, input.Phone); err == nil {
			return nil, apperr.Conflict("Phone number is already registered")
		} else if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_phone_check_failed: %w", err)
		}
	}

	referralCode, err := s.uniqueReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.Must(),
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: passwordHash,
		Status:       StatusPending,
		ReferralCode: referralCode,
	}

	registration := &Registration{
		User: user,
		Profile: Profile{
			UserID:    user.ID,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Country:   constants.DefaultCountry,
		},
		Verification: Verification{
			UserID:    user.ID,
			KYCStatus: KYCNone,
			Level:     0,
		},
		Preferences: Preferences{
			UserID:              user.ID,
			NotificationEmail:   true,
			NotificationSMS:     true,
			NotificationPush:    true,
			TradingLimitDaily:   DefaultTradingLimitDaily,
			TradingLimitMonthly: DefaultTradingLimitMonthly,
			PreferredCurrency:   constants.DefaultCurrency,
		},
		ReferralCode: input.ReferralCode,
	}

	// A generated code can still lose a race to a concurrent registration
	// between the uniqueness check and the insert; regenerate and retry.
	for attempt := 0; ; attempt++ {
		err := s.users.Create(ctx, registration)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrReferralCodeTaken) || attempt >= ReferralCodeMaxAttempts {
			return nil, err
		}
		if user.ReferralCode, err = s.uniqueReferralCode(ctx); err != nil {
			return nil, err
		}
	}

	return s.openSession(ctx, registration.User, 0)
}

/*
Login authenticates an email/password pair and opens a session.

Description: Unknown email and wrong password both produce the identical
"Invalid email or password" response so the endpoint cannot be used to
enumerate accounts. Suspended and closed accounts are rejected after the
password check; pending accounts may log in. The last_login stamp is
best-effort and never fails the login.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *AuthSession: The authenticated user with a fresh token pair
  - error: apperr.InvalidCredentials, apperr.Forbidden, or internal failures
*/
func (s *Service) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !s.hasher.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	if !user.Status.CanLogin() {
		return nil, apperr.Forbidden("Account is suspended or closed")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		ctxutil.GetLogger(ctx).Warn("last_login_stamp_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	level, err := s.users.VerificationLevel(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_verification_level_failed: %w", err)
	}

	return s.openSession(ctx, user, level)
}

/*
Refresh rotates a refresh token into a new session.

Description: Verifies the presented refresh token's signature, purpose, and
expiry, then compares it byte-for-byte against the stored token for that
user. Any mismatch — including a previously rotated-out token — is rejected.
On success the whole pair is reissued and the stored refresh token is
overwritten, so only the newest refresh token stays live.

Parameters:
  - ctx: context.Context
  - refreshToken: string

Returns:
  - *AuthSession: A fresh token pair with current user state in the claims
  - error: apperr.TokenExpired, apperr.Unauthorized, apperr.NotFound
    (account deleted), or internal failures
*/
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthSession, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, apperr.TokenExpired("Refresh token has expired")
		}
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	userID := claims.UserID()

	stored, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}
	if stored == "" || stored != refreshToken {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	// The account may have been deleted while the session was still live.
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("auth_service_refresh_user_failed: %w", err)
	}

	if !user.Status.CanLogin() {
		return nil, apperr.Forbidden("Account is suspended or closed")
	}

	level, err := s.users.VerificationLevel(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_verification_level_failed: %w", err)
	}

	return s.openSession(ctx, user, level)
}

/*
Logout revokes the caller's stored refresh token.

Description: Deleting an already-absent token is treated as success so
repeated logouts are idempotent. The access token stays valid until its
natural expiry.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - error: Store connectivity failures only
*/
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Revoke(ctx, userID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// openSession issues a token pair for the user and stores the refresh token,
// replacing any previously live one.
func (s *Service) openSession(ctx context.Context, user *User, verificationLevel int) (*AuthSession, error) {
	identity := sec.Identity{
		UserID:            user.ID,
		Email:             user.Email,
		Status:            string(user.Status),
		VerificationLevel: verificationLevel,
	}

	accessToken, err := s.tokens.GenerateAccessToken(identity, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(identity, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := s.sessions.Rotate(ctx, user.ID, refreshToken, RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_store_failed: %w", err)
	}

	return &AuthSession{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(AccessTokenTTL.Seconds()),
	}, nil
}

// uniqueReferralCode generates a referral code not already owned by any
// user. After ReferralCodeMaxAttempts collisions it falls back to a longer
// code, where a collision is practically impossible.
func (s *Service) uniqueReferralCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < ReferralCodeMaxAttempts; attempt++ {
		code, err := NewReferralCode(ReferralCodeLength)
		if err != nil {
			return "", fmt.Errorf("auth_service_referral_generate_failed: %w", err)
		}

		_, err = s.users.FindByReferralCode(ctx, code)
		if apperr.IsNotFound(err) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("auth_service_referral_check_failed: %w", err)
		}
	}

	code, err := NewReferralCode(ReferralCodeFallbackLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_referral_generate_failed: %w", err)
	}
	return code, nil
}
