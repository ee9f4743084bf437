// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/background"
	"github.com/taibuivan/shopora/internal/platform/ctxutil"
	"github.com/taibuivan/shopora/internal/platform/mail"
	"github.com/taibuivan/shopora/internal/platform/metrics"
	"github.com/taibuivan/shopora/internal/platform/sec"
	"github.com/taibuivan/shopora/pkg/clock"
	"github.com/taibuivan/shopora/pkg/pointer"
	"github.com/taibuivan/shopora/pkg/uuid"
)

// Mailers separates deferred mail from mail the caller waits for.
type Mailers struct {
	// Deferred carries best-effort mail; it may be a queue.
	Deferred mail.Mailer
	// Direct is used when the outcome must be reported to the client.
	Direct mail.Mailer
}

// LocalProvider implements [IdentityProvider] with locally stored
// credentials.
type LocalProvider struct {
	profiles ProfileStore
	tokens   *sec.TokenService
	mailers  Mailers
	runner   *background.Runner
	clock    clock.Clock
}

// NewLocalProvider constructs a [LocalProvider].
func NewLocalProvider(
	profiles ProfileStore,
	tokens *sec.TokenService,
	mailers Mailers,
	runner *background.Runner,
	clk clock.Clock,
) *LocalProvider {
	return &LocalProvider{
		profiles: profiles,
		tokens:   tokens,
		mailers:  mailers,
		runner:   runner,
		clock:    clk,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func record(event string, err error) {
	metrics.AuthEventsTotal.WithLabelValues(event, metrics.Result(err)).Inc()
}

// # Registration Flow

/*
SignUp registers a new identity with role user and an unverified email.

Description: The verification mail is sent after the row is committed and
never affects the outcome.

Parameters:
  - ctx: context.Context
  - input: SignUpInput

Returns:
  - *PublicUser: Created identity
  - error: CONFLICT (400) if the email is taken, or storage failures
*/
func (service *LocalProvider) SignUp(ctx context.Context, input SignUpInput) (user *PublicUser, err error) {
	defer func() { record("sign_up", err) }()

	email := normalizeEmail(input.Email)

	_, err = service.profiles.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperr.Duplicate(MsgEmailRegistered)
	case !apperr.HasCode(err, "NOT_FOUND"):
		return nil, fmt.Errorf("auth_service_sign_up_lookup_failed: %w", err)
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	token, err := sec.RandomToken(sec.DefaultTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("auth_service_verify_token_failed: %w", err)
	}

	profile := &Profile{
		ID:                   uuid.New(),
		Email:                email,
		PasswordHash:         hash,
		FullName:             strings.TrimSpace(input.FullName),
		Role:                 sec.RoleUser,
		EmailVerified:        false,
		VerifyToken:          pointer.To(token),
		VerifyTokenExpiresAt: pointer.To(sec.ExpiryTimestamp(service.clock, VerificationTokenHours)),
	}

	if err = service.profiles.Create(ctx, profile); err != nil {
		if apperr.HasCode(err, "CONFLICT") {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_sign_up_failed: %w", err)
	}

	service.runner.Go("mail_verification", func(ctx context.Context) error {
		return service.mailers.Deferred.SendVerificationEmail(ctx, email, token)
	})

	ctxutil.GetLogger(ctx).Info("auth_sign_up_succeeded", zap.String("user_id", profile.ID))
	return profile.Public(), nil
}

// # Authentication Flow

/*
SignIn checks credentials and starts a session.

Description: Unknown emails and wrong passwords share one message to prevent
enumeration. The new refresh token replaces any previous one, so only the
most recent session can be refreshed.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *SignInResult: Identity and token pair
  - error: UNAUTHORIZED or storage failures
*/
func (service *LocalProvider) SignIn(ctx context.Context, email, password string) (result *SignInResult, err error) {
	defer func() { record("sign_in", err) }()

	profile, err := service.profiles.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.Unauthorized(MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("auth_service_sign_in_lookup_failed: %w", err)
	}

	matched, err := sec.VerifyPasswordHash(password, profile.PasswordHash)
	if err != nil {
		ctxutil.GetLogger(ctx).Warn("auth_password_hash_unreadable", zap.String("user_id", profile.ID), zap.Error(err))
	}
	if !matched {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	result, err = service.startSession(ctx, profile)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("auth_sign_in_succeeded", zap.String("user_id", profile.ID))
	return result, nil
}

/*
SignOut clears the stored refresh token. Repeating it is harmless.

Parameters:
  - ctx: context.Context
  - userID: string
  - accessToken: string (unused by the local provider)

Returns:
  - error: storage failures
*/
func (service *LocalProvider) SignOut(ctx context.Context, userID, _ string) (err error) {
	defer func() { record("sign_out", err) }()

	err = service.profiles.Update(ctx, userID, ProfileUpdate{RefreshToken: pointer.To("")})
	if err != nil && !apperr.HasCode(err, "NOT_FOUND") {
		return fmt.Errorf("auth_service_sign_out_failed: %w", err)
	}
	return nil
}

// # Session Management

/*
Refresh rotates the session.

Description: The presented token must be a valid refresh JWT and equal, in
constant time, to the one stored on the profile. A token replaced by a later
sign-in or refresh is therefore rejected.

Parameters:
  - ctx: context.Context
  - refreshToken: string

Returns:
  - *SignInResult: New token pair
  - error: UNAUTHORIZED or storage failures
*/
func (service *LocalProvider) Refresh(ctx context.Context, refreshToken string) (result *SignInResult, err error) {
	defer func() { record("refresh", err) }()

	claims, err := service.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized(MsgInvalidRefreshToken)
	}

	profile, err := service.profiles.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.Unauthorized(MsgInvalidRefreshToken)
		}
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}

	if profile.RefreshToken == nil || !sec.TokensEqual(*profile.RefreshToken, refreshToken) {
		return nil, apperr.Unauthorized(MsgInvalidRefreshToken)
	}

	return service.startSession(ctx, profile)
}

// VerifyAccessToken implements [IdentityProvider].
func (service *LocalProvider) VerifyAccessToken(token string) (*sec.AuthClaims, error) {
	return service.tokens.VerifyAccessToken(token)
}

func (service *LocalProvider) startSession(ctx context.Context, profile *Profile) (*SignInResult, error) {
	principal := profile.Principal()

	accessToken, err := service.tokens.IssueAccessToken(principal)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.IssueRefreshToken(principal)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := service.profiles.Update(ctx, profile.ID, ProfileUpdate{RefreshToken: &refreshToken}); err != nil {
		return nil, fmt.Errorf("auth_service_store_refresh_token_failed: %w", err)
	}

	return &SignInResult{
		User: profile.Public(),
		Session: Session{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(service.tokens.AccessTTL().Seconds()),
		},
	}, nil
}

// # Password Recovery

/*
RequestPasswordReset issues a reset token for a known email.

Description: The outcome is identical for unknown addresses so the endpoint
cannot be used to discover accounts.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - error: storage failures only
*/
func (service *LocalProvider) RequestPasswordReset(ctx context.Context, email string) (err error) {
	defer func() { record("reset_request", err) }()

	profile, err := service.profiles.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil
		}
		return fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	token, err := sec.RandomToken(sec.DefaultTokenBytes)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	change := &TokenChange{Token: token, ExpiresAt: sec.ExpiryTimestamp(service.clock, ResetTokenHours)}
	if err = service.profiles.Update(ctx, profile.ID, ProfileUpdate{ResetToken: change}); err != nil {
		return fmt.Errorf("auth_service_reset_store_failed: %w", err)
	}

	address := profile.Email
	service.runner.Go("mail_password_reset", func(ctx context.Context) error {
		return service.mailers.Deferred.SendPasswordResetEmail(ctx, address, token)
	})
	return nil
}

/*
ConfirmPasswordReset sets a new password using a live reset token.

Description: The new hash and the cleared token are written in one update,
so a token can be used once.

Parameters:
  - ctx: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: BAD_REQUEST for unknown or expired tokens, or storage failures
*/
func (service *LocalProvider) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (err error) {
	defer func() { record("reset_confirm", err) }()

	if token == "" {
		return apperr.BadRequest(MsgInvalidResetToken)
	}

	profile, err := service.profiles.FindByResetToken(ctx, token, service.clock.Now())
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return apperr.BadRequest(MsgInvalidResetToken)
		}
		return fmt.Errorf("auth_service_reset_confirm_lookup_failed: %w", err)
	}

	hash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	err = service.profiles.Update(ctx, profile.ID, ProfileUpdate{PasswordHash: &hash, ResetToken: ClearToken})
	if err != nil {
		return fmt.Errorf("auth_service_reset_confirm_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).Info("auth_password_reset", zap.String("user_id", profile.ID))
	return nil
}

// # Email Verification

/*
ConfirmEmail marks the holder of a live verification token as verified.

Parameters:
  - ctx: context.Context
  - token: string

Returns:
  - string: The verified email
  - error: BAD_REQUEST for unknown or expired tokens, or storage failures
*/
func (service *LocalProvider) ConfirmEmail(ctx context.Context, token string) (email string, err error) {
	defer func() { record("verify_email", err) }()

	if token == "" {
		return "", apperr.BadRequest(MsgInvalidVerifyToken)
	}

	profile, err := service.profiles.FindByVerificationToken(ctx, token, service.clock.Now())
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return "", apperr.BadRequest(MsgInvalidVerifyToken)
		}
		return "", fmt.Errorf("auth_service_verify_lookup_failed: %w", err)
	}

	err = service.profiles.Update(ctx, profile.ID, ProfileUpdate{EmailVerified: pointer.To(true), VerifyToken: ClearToken})
	if err != nil {
		return "", fmt.Errorf("auth_service_verify_failed: %w", err)
	}

	address, name := profile.Email, profile.FullName
	service.runner.Go("mail_welcome", func(ctx context.Context) error {
		return service.mailers.Deferred.SendWelcomeEmail(ctx, address, name)
	})
	return address, nil
}

/*
ResendVerification issues a fresh verification token and mails it.

Description: Unlike the other mails this one is sent before returning, and a
delivery failure is reported to the caller.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - error: NOT_FOUND, BAD_REQUEST if already verified, INTERNAL_ERROR if the
    mail could not be sent
*/
func (service *LocalProvider) ResendVerification(ctx context.Context, email string) (err error) {
	defer func() { record("resend_verification", err) }()

	profile, err := service.profiles.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return apperr.NotFoundMessage(MsgUserNotFound)
		}
		return fmt.Errorf("auth_service_resend_lookup_failed: %w", err)
	}

	if profile.EmailVerified {
		return apperr.BadRequest(MsgAlreadyVerified)
	}

	token, err := sec.RandomToken(sec.DefaultTokenBytes)
	if err != nil {
		return fmt.Errorf("auth_service_verify_token_failed: %w", err)
	}

	change := &TokenChange{Token: token, ExpiresAt: sec.ExpiryTimestamp(service.clock, VerificationTokenHours)}
	if err = service.profiles.Update(ctx, profile.ID, ProfileUpdate{VerifyToken: change}); err != nil {
		return fmt.Errorf("auth_service_resend_store_failed: %w", err)
	}

	if err = service.mailers.Direct.SendVerificationEmail(ctx, profile.Email, token); err != nil {
		return apperr.InternalMessage(MsgVerificationFailed, err)
	}
	return nil
}

// # Profile

// Profile returns the public view of userID.
func (service *LocalProvider) Profile(ctx context.Context, userID string) (*PublicUser, error) {
	profile, err := service.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.Public(), nil
}
