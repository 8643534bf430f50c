// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/jamcoin/internal/platform/apperr"
	"github.com/taibuivan/jamcoin/internal/platform/sec"
)

// # Test Fakes

// fakeUserRepository is an in-memory UserRepository.
type fakeUserRepository struct {
	users map[string]*User // keyed by user ID

	// referralAlwaysTaken simulates a saturated 8-character code space.
	referralAlwaysTaken bool

	// createCollisions makes the next N Create calls lose the
	// referral-code insert race.
	createCollisions int

	lastLoginStamps []string

	lastRegistration *Registration
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*User)}
}

func (f *fakeUserRepository) Create(_ context.Context, registration *Registration) error {
	if f.createCollisions > 0 {
		f.createCollisions--
		return ErrReferralCodeTaken
	}
	if registration.ReferralCode != "" {
		referrer, found := f.byReferralCode(registration.ReferralCode)
		if !found {
			return apperr.InvalidReferralCode()
		}
		registration.User.ReferredBy = referrer.ID
	}
	f.users[registration.User.ID] = registration.User
	f.lastRegistration = registration
	return nil
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByPhone(_ context.Context, phone string) (*User, error) {
	for _, user := range f.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByReferralCode(_ context.Context, code string) (*User, error) {
	if f.referralAlwaysTaken && len(code) == ReferralCodeLength {
		return &User{ID: "someone-else"}, nil
	}
	if user, found := f.byReferralCode(code); found {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) VerificationLevel(_ context.Context, userID string) (int, error) {
	return 0, nil
}

func (f *fakeUserRepository) UpdateLastLogin(_ context.Context, userID string) error {
	f.lastLoginStamps = append(f.lastLoginStamps, userID)
	return nil
}

func (f *fakeUserRepository) byReferralCode(code string) (*User, bool) {
	for _, user := range f.users {
		if user.ReferralCode == code {
			return user, true
		}
	}
	return nil, false
}

// fakeSessionStore is an in-memory RefreshTokenRepository.
type fakeSessionStore struct {
	tokens map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{tokens: make(map[string]string)}
}

func (f *fakeSessionStore) Rotate(_ context.Context, userID, token string, _ time.Duration) error {
	f.tokens[userID] = token
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, userID string) (string, error) {
	return f.tokens[userID], nil
}

func (f *fakeSessionStore) Revoke(_ context.Context, userID string) error {
	delete(f.tokens, userID)
	return nil
}

// plainHasher skips bcrypt so tests stay fast.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) CheckPasswordHash(password, hash string) bool { return "hashed:"+password == hash }

// # Harness

type serviceHarness struct {
	service  *Service
	users    *fakeUserRepository
	sessions *fakeSessionStore
	tokens   *sec.TokenService
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()

	tokens, err := sec.NewTokenService(
		"test-access-secret-at-least-32-chars!!",
		"test-refresh-secret-at-least-32-chars!",
		"jamcoin.test",
	)
	require.NoError(t, err)

	users := newFakeUserRepository()
	sessions := newFakeSessionStore()

	return &serviceHarness{
		service:  NewService(users, sessions, tokens, plainHasher{}),
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

func registerInput() RegisterInput {
	return RegisterInput{
		Email:     "nadia@example.com",
		Password:  "s3cure-passphrase",
		Phone:     "+18765551234",
		FirstName: "Nadia",
		LastName:  "Campbell",
	}
}

// # Registration

/*
TestService_Register covers the happy path and the resulting account state.
*/
func TestService_Register(t *testing.T) {
	h := newServiceHarness(t)

	session, err := h.service.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NotNil(t, session.User)

	assert.Equal(t, StatusPending, session.User.Status)
	assert.Len(t, session.User.ReferralCode, ReferralCodeLength)
	assert.NotEqual(t, "s3cure-passphrase", session.User.PasswordHash)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, int64(AccessTokenTTL.Seconds()), session.ExpiresIn)

	// The refresh token must be live in the session store immediately.
	assert.Equal(t, session.RefreshToken, h.sessions.tokens[session.User.ID])

	// Claims carry the pending status, not active.
	claims, err := h.tokens.VerifyAccessToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(StatusPending), claims.Status)
	assert.Equal(t, 0, claims.VerificationLevel)

	// New accounts start with every notification channel on and the
	// standard limits.
	preferences := h.users.lastRegistration.Preferences
	assert.True(t, preferences.NotificationEmail)
	assert.True(t, preferences.NotificationSMS)
	assert.True(t, preferences.NotificationPush)
	assert.Equal(t, DefaultTradingLimitDaily, preferences.TradingLimitDaily)
	assert.Equal(t, DefaultTradingLimitMonthly, preferences.TradingLimitMonthly)
	assert.Equal(t, "JMD", preferences.PreferredCurrency)
}

/*
TestService_Register_Conflicts covers duplicate email and phone.
*/
func TestService_Register_Conflicts(t *testing.T) {
	h := newServiceHarness(t)

	_, err := h.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	t.Run("duplicate_email", func(t *testing.T) {
		input := registerInput()
		input.Phone = "+18765559999"
		_, err := h.service.Register(context.Background(), input)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
		assert.Equal(t, "Email is already registered", ae.Message)
	})

	t.Run("duplicate_phone", func(t *testing.T) {
		input := registerInput()
		input.Email = "other@example.com"
		_, err := h.service.Register(context.Background(), input)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
		assert.Equal(t, "Phone number is already registered", ae.Message)
	})
}

/*
TestService_Register_Referrals covers referral attribution and the unknown
code rejection.
*/
func TestService_Register_Referrals(t *testing.T) {
	h := newServiceHarness(t)

	first, err := h.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	t.Run("valid_code_links_referrer", func(t *testing.T) {
		input := registerInput()
		input.Email = "friend@example.com"
		input.Phone = "+18765550000"
		input.ReferralCode = first.User.ReferralCode

		session, err := h.service.Register(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, session.User.ReferredBy)
	})

	t.Run("unknown_code_rejected", func(t *testing.T) {
		input := registerInput()
		input.Email = "stranger@example.com"
		input.Phone = "+18765550001"
		input.ReferralCode = "ZZZZ9999"

		_, err := h.service.Register(context.Background(), input)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "INVALID_REFERRAL_CODE", ae.Code)
	})
}

/*
TestService_Register_ReferralCollisionFallback simulates a saturated code
space: after the bounded retries the service issues a longer code instead of
looping forever.
*/
func TestService_Register_ReferralCollisionFallback(t *testing.T) {
	h := newServiceHarness(t)
	h.users.referralAlwaysTaken = true

	session, err := h.service.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.Len(t, session.User.ReferralCode, ReferralCodeFallbackLength)
}

/*
TestService_Register_ReferralInsertRace simulates losing the insert race for
the generated code: registration still succeeds with a regenerated code, and
exhausting the retry budget surfaces an error instead of spinning.
*/
func TestService_Register_ReferralInsertRace(t *testing.T) {
	t.Run("retries_with_fresh_code", func(t *testing.T) {
		h := newServiceHarness(t)
		h.users.createCollisions = 2

		session, err := h.service.Register(context.Background(), registerInput())
		require.NoError(t, err)
		assert.Len(t, session.User.ReferralCode, ReferralCodeLength)
		assert.Zero(t, h.users.createCollisions)
	})

	t.Run("retry_budget_exhausted", func(t *testing.T) {
		h := newServiceHarness(t)
		h.users.createCollisions = ReferralCodeMaxAttempts + 2

		_, err := h.service.Register(context.Background(), registerInput())
		require.ErrorIs(t, err, ErrReferralCodeTaken)
	})
}

// # Login

/*
TestService_Login covers the credential outcomes, including the anti-enumeration
property: unknown email and wrong password are indistinguishable.
*/
func TestService_Login(t *testing.T) {
	h := newServiceHarness(t)

	registered, err := h.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		session, err := h.service.Login(context.Background(), "nadia@example.com", "s3cure-passphrase")
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, session.User.ID)
		assert.Contains(t, h.users.lastLoginStamps, registered.User.ID)

		// Login replaces the stored refresh token.
		assert.Equal(t, session.RefreshToken, h.sessions.tokens[session.User.ID])
	})

	t.Run("unknown_email_and_wrong_password_match", func(t *testing.T) {
		_, unknownErr := h.service.Login(context.Background(), "ghost@example.com", "whatever")
		_, wrongErr := h.service.Login(context.Background(), "nadia@example.com", "wrong-password")

		unknownAE := apperr.As(unknownErr)
		wrongAE := apperr.As(wrongErr)
		require.NotNil(t, unknownAE)
		require.NotNil(t, wrongAE)

		assert.Equal(t, "INVALID_CREDENTIALS", unknownAE.Code)
		assert.Equal(t, unknownAE.Code, wrongAE.Code)
		assert.Equal(t, unknownAE.Message, wrongAE.Message)
		assert.Equal(t, "Invalid email or password", wrongAE.Message)
	})

	t.Run("pending_account_may_login", func(t *testing.T) {
		// Fresh registrations are pending; the success case above already
		// proved it, this pins the intent.
		assert.Equal(t, StatusPending, registered.User.Status)
	})

	t.Run("suspended_account_rejected", func(t *testing.T) {
		registered.User.Status = StatusSuspended
		defer func() { registered.User.Status = StatusPending }()

		_, err := h.service.Login(context.Background(), "nadia@example.com", "s3cure-passphrase")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "FORBIDDEN", ae.Code)
	})
}

// # Token Refresh

/*
TestService_Refresh covers rotation mechanics: one live refresh token per
user, the old one dead the moment a new one is issued.
*/
func TestService_Refresh(t *testing.T) {
	h := newServiceHarness(t)

	registered, err := h.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	t.Run("rotation_invalidates_previous_token", func(t *testing.T) {
		oldToken := registered.RefreshToken

		refreshed, err := h.service.Refresh(context.Background(), oldToken)
		require.NoError(t, err)
		assert.NotEqual(t, oldToken, refreshed.RefreshToken)
		assert.Equal(t, refreshed.RefreshToken, h.sessions.tokens[registered.User.ID])

		// Replaying the rotated-out token must fail even though its
		// signature and expiry are still valid.
		_, err = h.service.Refresh(context.Background(), oldToken)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})

	t.Run("access_token_rejected", func(t *testing.T) {
		_, err := h.service.Refresh(context.Background(), registered.AccessToken)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})

	t.Run("garbage_token_rejected", func(t *testing.T) {
		_, err := h.service.Refresh(context.Background(), "not-a-jwt")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})

	t.Run("expired_token_has_distinct_code", func(t *testing.T) {
		expired, err := h.tokens.GenerateRefreshToken(sec.Identity{
			UserID: registered.User.ID,
			Email:  registered.User.Email,
			Status: string(registered.User.Status),
		}, -time.Minute)
		require.NoError(t, err)

		_, err = h.service.Refresh(context.Background(), expired)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "TOKEN_EXPIRED", ae.Code)
	})

	t.Run("deleted_account_is_not_found", func(t *testing.T) {
		input := registerInput()
		input.Email = "omar@example.com"
		input.Phone = "+18765557777"
		session, err := h.service.Register(context.Background(), input)
		require.NoError(t, err)

		// The account is deleted while its refresh token is still live
		// and stored.
		delete(h.users.users, session.User.ID)

		_, err = h.service.Refresh(context.Background(), session.RefreshToken)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
		assert.Equal(t, 404, ae.HTTPStatus)
	})

	t.Run("revoked_session_rejected", func(t *testing.T) {
		current := h.sessions.tokens[registered.User.ID]
		require.NoError(t, h.service.Logout(context.Background(), registered.User.ID))

		_, err := h.service.Refresh(context.Background(), current)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})
}

// # Logout

/*
TestService_Logout verifies revocation and idempotency.
*/
func TestService_Logout(t *testing.T) {
	h := newServiceHarness(t)

	session, err := h.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	require.NoError(t, h.service.Logout(context.Background(), session.User.ID))
	assert.Empty(t, h.sessions.tokens[session.User.ID])

	// A second logout with nothing stored is still a success.
	require.NoError(t, h.service.Logout(context.Background(), session.User.ID))
}
