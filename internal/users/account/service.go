// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"

	"github.com/taibuivan/jamcoin/internal/platform/apperr"
)

// # Service

// Service serves and updates the authenticated user's own account data.
type Service struct {
	profiles ProfileRepository
}

// NewService creates the account service.
func NewService(profiles ProfileRepository) *Service {
	return &Service{profiles: profiles}
}

/*
Profile returns the full joined profile of a user.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - *FullProfile: The joined read model
  - error: apperr.NotFound or storage failures
*/
func (s *Service) Profile(ctx context.Context, userID string) (*FullProfile, error) {
	return s.profiles.FindFull(ctx, userID)
}

/*
UpdateProfile applies a partial profile update and returns the fresh view.

Description: A payload with no recognized field is rejected rather than
silently succeeding — the client almost certainly misspelled something.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *FullProfile: The profile after the update
  - error: apperr.NoUpdateData, apperr.NotFound, or storage failures
*/
func (s *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*FullProfile, error) {
	if input.Empty() {
		return nil, apperr.NoUpdateData()
	}

	if err := s.profiles.UpdateProfile(ctx, userID, input); err != nil {
		return nil, err
	}

	return s.profiles.FindFull(ctx, userID)
}

/*
UpdatePreferences applies a partial preferences update and returns the fresh view.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: UpdatePreferencesInput

Returns:
  - *FullProfile: The profile after the update
  - error: apperr.NoUpdateData, apperr.NotFound, or storage failures
*/
func (s *Service) UpdatePreferences(ctx context.Context, userID string, input UpdatePreferencesInput) (*FullProfile, error) {
	if input.Empty() {
		return nil, apperr.NoUpdateData()
	}

	if err := s.profiles.UpdatePreferences(ctx, userID, input); err != nil {
		return nil, err
	}

	return s.profiles.FindFull(ctx, userID)
}
