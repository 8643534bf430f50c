// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package middleware provides the HTTP middleware chain for the JamCoin API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This file carries the AuthN/AuthZ
// chain: bearer extraction, token verification, account-status and
// verification-level gates.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/taibuivan/jamcoin/internal/platform/apperr"
	"github.com/taibuivan/jamcoin/internal/platform/constants"
	"github.com/taibuivan/jamcoin/internal/platform/ctxkey"
	"github.com/taibuivan/jamcoin/internal/platform/ctxutil"
	"github.com/taibuivan/jamcoin/internal/platform/respond"
	"github.com/taibuivan/jamcoin/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject fakes during unit testing.
type TokenVerifier interface {
	VerifyAccessToken(tokenStr string) (*sec.AuthClaims, error)
}

// statusActive is the only account status allowed through [RequireActiveStatus].
const statusActive = "active"

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Require 'Authorization: Bearer <token>' header — absent means 401.
//  2. Parse and verify the JWT via [TokenVerifier].
//  3. Distinguish expired from invalid tokens: both are 401, but the
//     response code differs (TOKEN_EXPIRED vs UNAUTHORIZED).
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := bearerClaims(request, verifier)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate performs the same extraction and verification as
// [Authenticate], but a missing or invalid token is not an error — the
// request simply proceeds without identity context.
func OptionalAuthenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := bearerClaims(request, verifier)
			if err != nil {
				// Anonymous access is fine here.
				next.ServeHTTP(writer, request)
				return
			}

			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireActiveStatus blocks authenticated requests whose account status is
// not 'active'.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireActiveStatus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}

		if claims.Status != statusActive {
			respond.Error(writer, request, apperr.Forbidden("Account is not active"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// RequireVerificationLevel blocks requests whose identity has not reached the
// given KYC verification level.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies authentication, so there is no need to also mount a bare auth gate.
func RequireVerificationLevel(minLevel int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if claims.VerificationLevel < minLevel {
				respond.Error(writer, request, apperr.Forbidden(
					fmt.Sprintf("Verification level %d required", minLevel)))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// bearerClaims extracts the bearer token and verifies it, mapping token
// service errors into the API error taxonomy.
func bearerClaims(request *http.Request, verifier TokenVerifier) (*sec.AuthClaims, error) {
	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return nil, apperr.Unauthorized("Access token is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, apperr.Unauthorized("Invalid authorization format")
	}

	claims, err := verifier.VerifyAccessToken(parts[1])
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, apperr.TokenExpired("Token has expired")
		}
		return nil, apperr.Unauthorized("Invalid token")
	}

	return claims, nil
}
