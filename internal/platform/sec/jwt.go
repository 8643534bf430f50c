// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the domain's TokenProvider interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/jamcoin/pkg/uuid"
)

// # Verification Errors

var (
	// ErrTokenExpired is returned when a token's signature is valid but its
	// expiry has passed. Callers surface it as a 401 with a distinct code.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalid is returned for malformed, forged, or wrong-purpose
	// tokens. Indistinguishable failure causes are collapsed into this error
	// on purpose.
	ErrTokenInvalid = errors.New("sec: token invalid")
)

// # Claims

// tokenPurposeRefresh is the discriminator carried only by refresh tokens,
// so an access token can never be replayed against the refresh endpoint.
const tokenPurposeRefresh = "refresh"

// Identity is the payload stamped into every issued token.
//
// Verification level and account status are captured at issuance time; a
// refresh re-reads the user record, so stale values live at most one access
// token lifetime.
type Identity struct {
	UserID            string
	Email             string
	Status            string
	VerificationLevel int
}

// AuthClaims represents the payload embedded inside a JWT token.
//
// # Why custom claims?
//
// By embedding the email, account status, and verification level directly
// inside the JWT, the authentication middleware can reconstruct the active
// user context WITHOUT querying the database on every single API request.
// Claim keys are abbreviated to keep the JWT payload small.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email             string `json:"eml"`
	Status            string `json:"sts"`
	VerificationLevel int    `json:"vlv"`
	Purpose           string `json:"pur,omitempty"`
}

// UserID returns the subject claim, which carries the user's UUID.
func (c *AuthClaims) UserID() string {
	return c.Subject
}

// IsRefresh reports whether the claims belong to a refresh token.
func (c *AuthClaims) IsRefresh() bool {
	return c.Purpose == tokenPurposeRefresh
}

// # Token Service

// TokenService handles generation and verification of JWT tokens using HS256.
//
// # Dual Secrets
//
// Access and refresh tokens are signed with separate secrets. A leaked
// refresh secret therefore cannot forge access tokens, and vice versa.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
}

// NewTokenService creates a new TokenService.
//
// It fails when either secret is empty or when both secrets are identical,
// since identical secrets would collapse the two token classes into one.
func NewTokenService(accessSecret, refreshSecret, issuer string) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("sec: token signing secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("sec: access and refresh secrets must differ")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
	}, nil
}

// GenerateAccessToken creates a short-lived JWT authorizing API requests.
func (service *TokenService) GenerateAccessToken(identity Identity, timeToLive time.Duration) (string, error) {
	return service.sign(identity, timeToLive, "", service.accessSecret)
}

// GenerateRefreshToken creates a long-lived JWT carrying the refresh discriminator.
func (service *TokenService) GenerateRefreshToken(identity Identity, timeToLive time.Duration) (string, error) {
	return service.sign(identity, timeToLive, tokenPurposeRefresh, service.refreshSecret)
}

// sign builds the canonical claims set and signs it with the given secret.
//
// Every token carries a unique jti. Without it, two tokens issued for the
// same identity within one second would be byte-identical, and refresh
// rotation could not tell old from new.
func (service *TokenService) sign(identity Identity, timeToLive time.Duration, purpose string, secret []byte) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.Must(),
			Subject:   identity.UserID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Email:             identity.Email,
		Status:            identity.Status,
		VerificationLevel: identity.VerificationLevel,
		Purpose:           purpose,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken checks the signature and validity of an access token.
//
// It returns [ErrTokenExpired] for valid-but-expired tokens and
// [ErrTokenInvalid] for everything else, so callers can log the two cases
// distinctly while returning the same 401 to clients.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	claims, err := service.verify(tokenString, service.accessSecret)
	if err != nil {
		return nil, err
	}

	// A refresh token presented as an access token is a misuse, not a
	// valid credential.
	if claims.IsRefresh() {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// VerifyRefreshToken checks the signature, validity, and purpose discriminator
// of a refresh token.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*AuthClaims, error) {
	claims, err := service.verify(tokenString, service.refreshSecret)
	if err != nil {
		return nil, err
	}

	if !claims.IsRefresh() {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// verify parses a token against the given secret and classifies failures.
func (service *TokenService) verify(tokenString string, secret []byte) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		// Expiry is the only failure worth distinguishing; it drives a
		// different client recovery path (silent refresh) than forgery.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
