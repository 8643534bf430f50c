// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/jamcoin/internal/platform/apperr"
)

// postJSON sends a JSON body to the handler's router and decodes the envelope.
func postJSON(t *testing.T, router http.Handler, path string, body any, bearer string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	envelope := map[string]any{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return recorder, envelope
}

func newHTTPHarness(t *testing.T) (*serviceHarness, http.Handler) {
	t.Helper()
	h := newServiceHarness(t)
	handler := NewHTTPHandler(h.service, h.tokens)
	return h, handler.Routes()
}

/*
TestHTTP_Register covers the transport contract: envelope shape, status
codes, and validation details.
*/
func TestHTTP_Register(t *testing.T) {
	_, router := newHTTPHarness(t)

	t.Run("created", func(t *testing.T) {
		recorder, envelope := postJSON(t, router, "/register", map[string]string{
			"email":     "nadia@example.com",
			"password":  "s3cure-passphrase",
			"firstName": "Nadia",
			"lastName":  "Campbell",
		}, "")

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, true, envelope["success"])
		assert.NotEmpty(t, envelope["timestamp"])

		data, ok := envelope["data"].(map[string]any)
		require.True(t, ok)
		assert.NotEmpty(t, data["accessToken"])
		assert.NotEmpty(t, data["refreshToken"])
		assert.Equal(t, float64(900), data["expiresIn"])

		// The password hash must never appear in the response.
		user, ok := data["user"].(map[string]any)
		require.True(t, ok)
		assert.NotContains(t, user, "password_hash")
		assert.Equal(t, "pending", user["status"])
	})

	t.Run("validation_failure_lists_fields", func(t *testing.T) {
		recorder, envelope := postJSON(t, router, "/register", map[string]string{
			"email":    "not-an-email",
			"password": "short",
		}, "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, false, envelope["success"])
		assert.Equal(t, "VALIDATION_ERROR", envelope["code"])

		details, ok := envelope["details"].([]any)
		require.True(t, ok)
		assert.NotEmpty(t, details)
	})

	t.Run("malformed_json", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte("{broken")))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestHTTP_LoginAndRefresh exercises the session lifecycle over the wire.
*/
func TestHTTP_LoginAndRefresh(t *testing.T) {
	h, router := newHTTPHarness(t)

	_, err := h.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	t.Run("login_ok", func(t *testing.T) {
		recorder, envelope := postJSON(t, router, "/login", map[string]string{
			"email":    "nadia@example.com",
			"password": "s3cure-passphrase",
		}, "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, true, envelope["success"])
	})

	t.Run("bad_credentials_are_uniform", func(t *testing.T) {
		recorder, envelope := postJSON(t, router, "/login", map[string]string{
			"email":    "nadia@example.com",
			"password": "wrong",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", envelope["code"])
		assert.Equal(t, "Invalid email or password", envelope["error"])
	})

	t.Run("refresh_requires_body_token", func(t *testing.T) {
		recorder, envelope := postJSON(t, router, "/refresh", map[string]string{}, "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "VALIDATION_ERROR", envelope["code"])
	})

	t.Run("refresh_rotates", func(t *testing.T) {
		session, err := h.service.Login(context.Background(), "nadia@example.com", "s3cure-passphrase")
		require.NoError(t, err)

		recorder, envelope := postJSON(t, router, "/refresh", map[string]string{
			"refreshToken": session.RefreshToken,
		}, "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		data := envelope["data"].(map[string]any)
		assert.NotEqual(t, session.RefreshToken, data["refreshToken"])
	})
}

/*
TestHTTP_Logout verifies the guard and the success message.
*/
func TestHTTP_Logout(t *testing.T) {
	h, router := newHTTPHarness(t)

	session, err := h.service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	t.Run("requires_access_token", func(t *testing.T) {
		recorder, envelope := postJSON(t, router, "/logout", nil, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "UNAUTHORIZED", envelope["code"])
	})

	t.Run("revokes_session", func(t *testing.T) {
		recorder, envelope := postJSON(t, router, "/logout", nil, session.AccessToken)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "Logged out successfully", envelope["message"])
		assert.Empty(t, h.sessions.tokens[session.User.ID])

		// Refreshing with the revoked token now fails.
		_, err := h.service.Refresh(context.Background(), session.RefreshToken)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})
}
