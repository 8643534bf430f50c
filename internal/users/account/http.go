// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/jamcoin/internal/platform/middleware"
	requestutil "github.com/taibuivan/jamcoin/internal/platform/request"
	"github.com/taibuivan/jamcoin/internal/platform/respond"
	"github.com/taibuivan/jamcoin/internal/platform/validate"
	"github.com/taibuivan/jamcoin/pkg/pointer"
)

const (
	maxNameLength    = 100
	maxAddressLength = 200
	dateOfBirthISO   = "2006-01-02"
)

// currencyRegex matches a three-letter uppercase ISO 4217 code.
var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// # HTTP Handler

// HTTPHandler exposes the account service over REST. Every route requires a
// valid access token on an active account.
type HTTPHandler struct {
	service  *Service
	verifier middleware.TokenVerifier
}

// NewHTTPHandler creates the HTTP transport for the account service.
func NewHTTPHandler(service *Service, verifier middleware.TokenVerifier) *HTTPHandler {
	return &HTTPHandler{service: service, verifier: verifier}
}

// Routes returns the chi router for the /users subtree.
func (handler *HTTPHandler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Authenticate(handler.verifier))
	router.Use(middleware.RequireActiveStatus)

	router.Get("/profile", handler.Profile)
	router.Put("/profile", handler.UpdateProfile)
	router.Put("/preferences", handler.UpdatePreferences)

	return router
}

/*
Profile handles GET /users/profile.

Description: Returns the caller's full account view: core user fields plus
the joined profile, verification, and preference rows.
*/
func (handler *HTTPHandler) Profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.Profile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
UpdateProfile handles PUT /users/profile.

Description: Strict decoding rejects fields outside the allow-list, so a
client attempting to write email or status gets a validation error instead
of a silent no-op.
*/
func (handler *HTTPHandler) UpdateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateProfileInput
	if err := requestutil.DecodeJSONStrict(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.FirstName != nil {
		validator.Required("firstName", *input.FirstName).
			MaxLen("firstName", *input.FirstName, maxNameLength)
	}
	if input.LastName != nil {
		validator.Required("lastName", *input.LastName).
			MaxLen("lastName", *input.LastName, maxNameLength)
	}
	if input.DateOfBirth != nil {
		_, parseErr := time.Parse(dateOfBirthISO, *input.DateOfBirth)
		validator.Custom("dateOfBirth", parseErr != nil, "Must be a date in YYYY-MM-DD format")
	}
	if input.AddressLine1 != nil {
		validator.MaxLen("addressLine1", *input.AddressLine1, maxAddressLength)
	}
	if input.AddressLine2 != nil {
		validator.MaxLen("addressLine2", *input.AddressLine2, maxAddressLength)
	}
	if input.City != nil {
		validator.MaxLen("city", *input.City, maxNameLength)
	}
	if input.Parish != nil {
		validator.MaxLen("parish", *input.Parish, maxNameLength)
	}
	if input.PostalCode != nil {
		validator.MaxLen("postalCode", *input.PostalCode, 20)
	}
	if input.Occupation != nil {
		validator.MaxLen("occupation", *input.Occupation, maxNameLength)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.UpdateProfile(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
UpdatePreferences handles PUT /users/preferences.
*/
func (handler *HTTPHandler) UpdatePreferences(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdatePreferencesInput
	if err := requestutil.DecodeJSONStrict(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.PreferredCurrency != nil {
		validator.Custom("preferredCurrency",
			!currencyRegex.MatchString(pointer.Val(input.PreferredCurrency)),
			"Must be a three-letter currency code")
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.UpdatePreferences(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
