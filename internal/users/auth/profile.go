// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements identity, session and account-verification flows.

An identity is a users.profile row. Sessions are stateless JWT pairs; the
only server-side session state is the profile's current refresh token, which
is overwritten on every sign-in and refresh.

Two [IdentityProvider] implementations exist: [LocalProvider] owns
credentials itself, [GoTrueProvider] delegates them to a GoTrue server and
keeps the local row for role lookups.
*/
package auth

import (
	"time"

	"github.com/taibuivan/shopora/internal/platform/sec"
)

// # Domain Entities

// Profile is a stored identity.
type Profile struct {
	ID                   string
	Email                string
	PasswordHash         string
	FullName             string
	Role                 sec.UserRole
	EmailVerified        bool
	VerifyToken          *string
	VerifyTokenExpiresAt *time.Time
	ResetToken           *string
	ResetTokenExpiresAt  *time.Time
	RefreshToken         *string
	AvatarURL            *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Principal returns the subject a session is minted for.
func (profile *Profile) Principal() sec.Principal {
	return sec.Principal{ID: profile.ID, Email: profile.Email, Role: profile.Role}
}

// Public returns the fields a client may see.
func (profile *Profile) Public() *PublicUser {
	return &PublicUser{
		ID:            profile.ID,
		Email:         profile.Email,
		FullName:      profile.FullName,
		Role:          profile.Role,
		EmailVerified: profile.EmailVerified,
		AvatarURL:     profile.AvatarURL,
		CreatedAt:     profile.CreatedAt,
	}
}

// PublicUser is the client-facing view of a [Profile].
type PublicUser struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	FullName      string       `json:"fullName"`
	Role          sec.UserRole `json:"role"`
	EmailVerified bool         `json:"emailVerified"`
	AvatarURL     *string      `json:"avatarUrl,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// Session is the token pair handed to a client.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// SignInResult is returned by sign-in and refresh.
type SignInResult struct {
	User    *PublicUser `json:"user"`
	Session Session     `json:"session"`
}

// # Partial Updates

// TokenChange sets or clears a token column and its expiry. An empty Token
// clears both.
type TokenChange struct {
	Token     string
	ExpiresAt time.Time
}

// ClearToken is the [TokenChange] that nulls a token pair.
var ClearToken = &TokenChange{}

// ProfileUpdate lists the columns to change. Nil fields are left untouched.
type ProfileUpdate struct {
	PasswordHash  *string
	FullName      *string
	EmailVerified *bool
	VerifyToken   *TokenChange
	ResetToken    *TokenChange
	RefreshToken  *string // "" stores NULL
}

// Empty reports whether the update changes nothing.
func (update ProfileUpdate) Empty() bool {
	return update.PasswordHash == nil && update.FullName == nil && update.EmailVerified == nil &&
		update.VerifyToken == nil && update.ResetToken == nil && update.RefreshToken == nil
}

// # Field Identifiers

const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldFullName     = "fullName"
	FieldToken        = "token"
	FieldNewPassword  = "newPassword"
	FieldRefreshToken = "refreshToken"
)
