// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/jamcoin/internal/platform/middleware"
	requestutil "github.com/taibuivan/jamcoin/internal/platform/request"
	"github.com/taibuivan/jamcoin/internal/platform/respond"
	"github.com/taibuivan/jamcoin/internal/platform/validate"
)

// Payload size limits enforced at the transport boundary.
const (
	maxEmailLength    = 254
	maxNameLength     = 100
	minPasswordLength = 8
	maxPasswordLength = 128
)

// registerRequest is the JSON payload for POST /auth/register.
type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ReferralCode string `json:"referralCode"`
}

// loginRequest is the JSON payload for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// refreshRequest is the JSON payload for POST /auth/refresh.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// # HTTP Handler

// HTTPHandler exposes the auth service over REST.
type HTTPHandler struct {
	service  *Service
	verifier middleware.TokenVerifier
}

// NewHTTPHandler creates the HTTP transport for the auth service. The
// verifier guards the logout route, which requires a valid access token.
func NewHTTPHandler(service *Service, verifier middleware.TokenVerifier) *HTTPHandler {
	return &HTTPHandler{service: service, verifier: verifier}
}

// Routes returns the chi router for the /auth subtree.
func (handler *HTTPHandler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.Register)
	router.Post("/login", handler.Login)
	router.Post("/refresh", handler.Refresh)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticate(handler.verifier))
		protected.Post("/logout", handler.Logout)
	})

	return router
}

/*
Register handles POST /auth/register.

Description: Validates the payload, creates the account, and returns 201
with the new user and its first token pair.
*/
func (handler *HTTPHandler) Register(writer http.ResponseWriter, request *http.Request) {
	var payload registerRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	err := validator.
		Required("email", payload.Email).
		Email("email", payload.Email).
		MaxLen("email", payload.Email, maxEmailLength).
		Required("password", payload.Password).
		MinLen("password", payload.Password, minPasswordLength).
		MaxLen("password", payload.Password, maxPasswordLength).
		Required("firstName", payload.FirstName).
		MaxLen("firstName", payload.FirstName, maxNameLength).
		Required("lastName", payload.LastName).
		MaxLen("lastName", payload.LastName, maxNameLength).
		Phone("phone", payload.Phone).
		ReferralCode("referralCode", payload.ReferralCode).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Register(request.Context(), RegisterInput{
		Email:        payload.Email,
		Password:     payload.Password,
		Phone:        payload.Phone,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		ReferralCode: payload.ReferralCode,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

/*
Login handles POST /auth/login.
*/
func (handler *HTTPHandler) Login(writer http.ResponseWriter, request *http.Request) {
	var payload loginRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	err := validator.
		Required("email", payload.Email).
		Required("password", payload.Password).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), payload.Email, payload.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
Refresh handles POST /auth/refresh.

Description: The refresh token travels in the body, never in the
Authorization header — that header is reserved for access tokens.
*/
func (handler *HTTPHandler) Refresh(writer http.ResponseWriter, request *http.Request) {
	var payload refreshRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if payload.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError("refreshToken", "This field is required"))
		return
	}

	session, err := handler.service.Refresh(request.Context(), payload.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
Logout handles POST /auth/logout. Requires a valid access token.
*/
func (handler *HTTPHandler) Logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, "Logged out successfully")
}
