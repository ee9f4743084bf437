// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/shopora/internal/platform/sec"
)

// # Contracts & Types

// SignUpInput holds the data required to register an identity.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

// IdentityProvider is the authentication contract the handlers and the
// authorization gate depend on.
type IdentityProvider interface {
	SignUp(ctx context.Context, input SignUpInput) (*PublicUser, error)
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	// SignOut ends the session of userID. accessToken is the bearer the
	// request was authenticated with.
	SignOut(ctx context.Context, userID, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (*SignInResult, error)
	VerifyAccessToken(token string) (*sec.AuthClaims, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	// ConfirmEmail consumes a verification token and returns the verified address.
	ConfirmEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) error
	Profile(ctx context.Context, userID string) (*PublicUser, error)
}
