// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/jamcoin/internal/platform/sec"
)

// fakeVerifier maps exact token strings to canned claims.
type fakeVerifier struct {
	claims map[string]*sec.AuthClaims
}

func (f *fakeVerifier) VerifyAccessToken(tokenStr string) (*sec.AuthClaims, error) {
	if claims, ok := f.claims[tokenStr]; ok {
		return claims, nil
	}
	return nil, sec.ErrTokenInvalid
}

func accountClaims(status string) *sec.AuthClaims {
	return &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: testUserID},
		Email:            "nadia@example.com",
		Status:           status,
	}
}

func newRouterHarness() http.Handler {
	service, _ := newAccountHarness()
	verifier := &fakeVerifier{claims: map[string]*sec.AuthClaims{
		"active-token":    accountClaims("active"),
		"pending-token":   accountClaims("pending"),
		"suspended-token": accountClaims("suspended"),
	}}
	return NewHTTPHandler(service, verifier).Routes()
}

func doRoute(t *testing.T, handler http.Handler, method, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, target, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestRoutes_ActiveStatusGate verifies that every account route, reads
included, rejects tokens whose account is not active.
*/
func TestRoutes_ActiveStatusGate(t *testing.T) {
	router := newRouterHarness()

	t.Run("active_account_reads_profile", func(t *testing.T) {
		recorder := doRoute(t, router, http.MethodGet, "/profile", "active-token")
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Success bool            `json:"success"`
			Data    json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Contains(t, string(body.Data), "nadia@example.com")
	})

	t.Run("pending_account_cannot_read_profile", func(t *testing.T) {
		recorder := doRoute(t, router, http.MethodGet, "/profile", "pending-token")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("suspended_account_cannot_read_profile", func(t *testing.T) {
		recorder := doRoute(t, router, http.MethodGet, "/profile", "suspended-token")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("pending_account_cannot_update", func(t *testing.T) {
		recorder := doRoute(t, router, http.MethodPut, "/profile", "pending-token")
		assert.Equal(t, http.StatusForbidden, recorder.Code)

		recorder = doRoute(t, router, http.MethodPut, "/preferences", "pending-token")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("anonymous_rejected", func(t *testing.T) {
		recorder := doRoute(t, router, http.MethodGet, "/profile", "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
