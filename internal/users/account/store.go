// Copyright (c) 2026 JamCoin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import "context"

// ProfileRepository is the storage contract for the account read model and
// its partial updates.
type ProfileRepository interface {

	/*
		FindFull loads the joined profile view for a user.

		Returns:
		  - *FullProfile: The joined read model
		  - error: apperr.NotFound when the user does not exist
	*/
	FindFull(ctx context.Context, userID string) (*FullProfile, error)

	/*
		UpdateProfile applies the non-nil fields of the input to the user's
		profile row.

		Returns:
		  - error: apperr.NotFound when the profile row does not exist
	*/
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) error

	/*
		UpdatePreferences applies the non-nil fields of the input to the
		user's preferences row.

		Returns:
		  - error: apperr.NotFound when the preferences row does not exist
	*/
	UpdatePreferences(ctx context.Context, userID string, input UpdatePreferencesInput) error
}
