// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/shopora/internal/platform/sec"
)

// # Profile Data Access

// ProfileStore defines the data access contract for identities.
//
// Lookups that match nothing return an apperr NOT_FOUND error.
type ProfileStore interface {

	/*
		FindByEmail returns the profile registered under email.

		Parameters:
		  - context: context.Context
		  - email: string (lowercased by the caller)

		Returns:
		  - *Profile: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByEmail(context context.Context, email string) (*Profile, error)

	/*
		FindByID returns the profile with the given id.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Profile: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByID(context context.Context, id string) (*Profile, error)

	/*
		FindByVerificationToken returns the profile holding token, provided
		its expiry is not before now.

		Parameters:
		  - context: context.Context
		  - token: string
		  - now: time.Time

		Returns:
		  - *Profile: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByVerificationToken(context context.Context, token string, now time.Time) (*Profile, error)

	/*
		FindByResetToken returns the profile holding the password reset token,
		provided its expiry is not before now.

		Parameters:
		  - context: context.Context
		  - token: string
		  - now: time.Time

		Returns:
		  - *Profile: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByResetToken(context context.Context, token string, now time.Time) (*Profile, error)

	/*
		Create persists a new profile.

		Parameters:
		  - context: context.Context
		  - profile: *Profile

		Returns:
		  - error: CONFLICT on a duplicate email, or database failures
	*/
	Create(context context.Context, profile *Profile) error

	/*
		Update applies a partial update in a single statement.

		Parameters:
		  - context: context.Context
		  - id: string
		  - update: ProfileUpdate

		Returns:
		  - error: NOT_FOUND or database failures
	*/
	Update(context context.Context, id string, update ProfileUpdate) error

	/*
		SetRole changes the role of the profile registered under email.

		Parameters:
		  - context: context.Context
		  - email: string
		  - role: sec.UserRole

		Returns:
		  - *Profile: The updated entity
		  - error: NOT_FOUND or database failures
	*/
	SetRole(context context.Context, email string, role sec.UserRole) (*Profile, error)
}
