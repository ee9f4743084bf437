// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/ctxutil"
	"github.com/taibuivan/shopora/internal/platform/sec"
	"github.com/taibuivan/shopora/pkg/clock"
	"github.com/taibuivan/shopora/pkg/pointer"
)

// GoTrueConfig locates a GoTrue (Supabase Auth) server.
type GoTrueConfig struct {
	URL    string
	APIKey string
	// JWTSecret is the server's HS256 signing secret; access tokens are
	// verified locally with it.
	JWTSecret string
	// RedirectURL is passed as redirect_to when redeeming emailed tokens.
	// Defaults to URL.
	RedirectURL string
	Timeout     time.Duration
}

// GoTrueError is a non-2xx answer from the GoTrue server.
type GoTrueError struct {
	Status  int
	Message string
}

func (e *GoTrueError) Error() string {
	return fmt.Sprintf("gotrue: %d %s", e.Status, e.Message)
}

// GoTrueProvider implements [IdentityProvider] on a GoTrue server. Roles
// live in the local users.profile row, keyed by the GoTrue user id.
type GoTrueProvider struct {
	config   GoTrueConfig
	client   gotrue.Client
	profiles ProfileStore
	clock    clock.Clock
	parser   *jwt.Parser
}

// NewGoTrueProvider constructs a [GoTrueProvider].
func NewGoTrueProvider(config GoTrueConfig, profiles ProfileStore, clk clock.Clock) *GoTrueProvider {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	config.URL = strings.TrimRight(config.URL, "/")
	if config.RedirectURL == "" {
		config.RedirectURL = config.URL
	}

	return &GoTrueProvider{
		config:   config,
		client:   gotrue.New("", config.APIKey).WithCustomGoTrueURL(config.URL),
		profiles: profiles,
		clock:    clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(clk.Now),
			jwt.WithExpirationRequired(),
		),
	}
}

type gotrueClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// # Transport

// contextTransport binds every request of one call to ctx; the client
// library has no context parameter of its own.
type contextTransport struct {
	ctx  context.Context
	next http.RoundTripper
}

func (transport contextTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	return transport.next.RoundTrip(request.WithContext(transport.ctx))
}

// call returns a client scoped to ctx, authenticated as bearer when given.
func (provider *GoTrueProvider) call(ctx context.Context, bearer string) gotrue.Client {
	client := provider.client.WithClient(http.Client{
		Timeout:   provider.config.Timeout,
		Transport: contextTransport{ctx: ctx, next: http.DefaultTransport},
	})
	if bearer != "" {
		client = client.WithToken(bearer)
	}
	return client
}

var upstreamStatus = regexp.MustCompile(`(?s)^response status code (\d{3})(?::\s*(.*))?$`)

// upstreamError turns the library's "response status code N: body" errors
// into a [GoTrueError]. Request validation failures count as 400.
func upstreamError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, types.ErrInvalidTokenRequest) || errors.Is(err, types.ErrInvalidVerifyRequest) {
		return &GoTrueError{Status: http.StatusBadRequest, Message: err.Error()}
	}

	match := upstreamStatus.FindStringSubmatch(err.Error())
	if match == nil {
		return fmt.Errorf("gotrue_unreachable: %w", err)
	}
	status, _ := strconv.Atoi(match[1])
	return &GoTrueError{Status: status, Message: gotrueMessage([]byte(match[2]))}
}

// gotrueMessage extracts the human message from any of the error shapes
// GoTrue versions emit.
func gotrueMessage(raw []byte) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, candidate := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// clientError reports whether err is a 4xx answer, i.e. the request was
// rejected rather than the server failing.
func clientError(err error) bool {
	var gotrueErr *GoTrueError
	return errors.As(err, &gotrueErr) && gotrueErr.Status < http.StatusInternalServerError
}

// rejection returns the upstream message of a 4xx answer.
func rejection(err error) string {
	var gotrueErr *GoTrueError
	if errors.As(err, &gotrueErr) && gotrueErr.Message != "" {
		return gotrueErr.Message
	}
	return "Request rejected by identity provider"
}

// # Registration Flow

/*
SignUp registers the identity on GoTrue and mirrors it into users.profile
with role user.

Parameters:
  - ctx: context.Context
  - input: SignUpInput

Returns:
  - *PublicUser: Created identity
  - error: CONFLICT if the email is taken, or upstream failures
*/
func (provider *GoTrueProvider) SignUp(ctx context.Context, input SignUpInput) (user *PublicUser, err error) {
	defer func() { record("sign_up", err) }()

	email := normalizeEmail(input.Email)
	_, err = provider.profiles.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperr.Duplicate(MsgEmailRegistered)
	case !apperr.HasCode(err, "NOT_FOUND"):
		return nil, fmt.Errorf("auth_gotrue_sign_up_lookup_failed: %w", err)
	}

	answer, err := provider.call(ctx, "").Signup(types.SignupRequest{
		Email:    email,
		Password: input.Password,
		Data:     map[string]interface{}{"full_name": input.FullName},
	})
	if err = upstreamError(err); err != nil {
		if clientError(err) {
			if strings.Contains(strings.ToLower(rejection(err)), "already registered") {
				return nil, apperr.Duplicate(MsgEmailRegistered).WithCause(err)
			}
			return nil, apperr.BadRequest(rejection(err)).WithCause(err)
		}
		return nil, fmt.Errorf("auth_gotrue_sign_up_failed: %w", err)
	}

	// Auto-confirming servers answer with a session, the others with the user.
	remote := answer.User
	if answer.Session.AccessToken != "" {
		remote = answer.Session.User
	}
	if remote.ID == uuid.Nil {
		return nil, fmt.Errorf("auth_gotrue_sign_up_failed: %w", errors.New("empty user id"))
	}

	profile := &Profile{
		ID:            remote.ID.String(),
		Email:         email,
		FullName:      strings.TrimSpace(input.FullName),
		Role:          sec.RoleUser,
		EmailVerified: remote.EmailConfirmedAt != nil,
		CreatedAt:     remote.CreatedAt,
	}
	if err = provider.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	return profile.Public(), nil
}

// # Authentication Flow

// SignIn exchanges credentials for a GoTrue session.
func (provider *GoTrueProvider) SignIn(ctx context.Context, email, password string) (result *SignInResult, err error) {
	defer func() { record("sign_in", err) }()

	answer, err := provider.call(ctx, "").SignInWithEmailPassword(normalizeEmail(email), password)
	if err = upstreamError(err); err != nil {
		if clientError(err) {
			return nil, apperr.Unauthorized(MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("auth_gotrue_sign_in_failed: %w", err)
	}

	return provider.sessionResult(ctx, answer.Session, MsgInvalidCredentials)
}

// SignOut revokes the GoTrue session behind accessToken.
func (provider *GoTrueProvider) SignOut(ctx context.Context, _, accessToken string) (err error) {
	defer func() { record("sign_out", err) }()

	err = upstreamError(provider.call(ctx, accessToken).Logout())
	if err != nil && !clientError(err) {
		return fmt.Errorf("auth_gotrue_sign_out_failed: %w", err)
	}
	return nil
}

// Refresh rotates a GoTrue refresh token.
func (provider *GoTrueProvider) Refresh(ctx context.Context, refreshToken string) (result *SignInResult, err error) {
	defer func() { record("refresh", err) }()

	answer, err := provider.call(ctx, "").RefreshToken(refreshToken)
	if err = upstreamError(err); err != nil {
		if clientError(err) {
			return nil, apperr.Unauthorized(MsgInvalidRefreshToken)
		}
		return nil, fmt.Errorf("auth_gotrue_refresh_failed: %w", err)
	}

	return provider.sessionResult(ctx, answer.Session, MsgInvalidRefreshToken)
}

// sessionResult joins a GoTrue session with the local profile. A session for
// an identity without a profile row is refused.
func (provider *GoTrueProvider) sessionResult(ctx context.Context, session types.Session, rejection string) (*SignInResult, error) {
	if session.User.ID == uuid.Nil || session.AccessToken == "" {
		return nil, apperr.Unauthorized(rejection)
	}

	userID := session.User.ID.String()
	profile, err := provider.profiles.FindByID(ctx, userID)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			ctxutil.GetLogger(ctx).Warn("auth_gotrue_profile_missing", zap.String("user_id", userID))
			return nil, apperr.Unauthorized(rejection)
		}
		return nil, fmt.Errorf("auth_gotrue_profile_lookup_failed: %w", err)
	}

	return &SignInResult{
		User: profile.Public(),
		Session: Session{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresIn:    session.ExpiresIn,
		},
	}, nil
}

// VerifyAccessToken checks a GoTrue access token against the shared secret.
// The role is always user here; the gate replaces it with the stored role.
func (provider *GoTrueProvider) VerifyAccessToken(token string) (*sec.AuthClaims, error) {
	if token == "" {
		return nil, sec.ErrInvalidToken
	}

	parsed, err := provider.parser.ParseWithClaims(token, &gotrueClaims{}, func(*jwt.Token) (any, error) {
		return []byte(provider.config.JWTSecret), nil
	})
	if err != nil {
		return nil, sec.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*gotrueClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, sec.ErrInvalidToken
	}

	return &sec.AuthClaims{
		RegisteredClaims: claims.RegisteredClaims,
		UserID:           claims.Subject,
		Email:            claims.Email,
		Role:             sec.RoleUser,
	}, nil
}

// # Password Recovery

// RequestPasswordReset asks GoTrue to mail a recovery link. Rejections are
// not reported so that the answer is the same for every address.
func (provider *GoTrueProvider) RequestPasswordReset(ctx context.Context, email string) (err error) {
	defer func() { record("reset_request", err) }()

	err = upstreamError(provider.call(ctx, "").Recover(types.RecoverRequest{Email: normalizeEmail(email)}))
	if err != nil && !clientError(err) {
		return fmt.Errorf("auth_gotrue_recover_failed: %w", err)
	}
	return nil
}

// ConfirmPasswordReset redeems a recovery token and sets the new password
// with the session it yields.
func (provider *GoTrueProvider) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (err error) {
	defer func() { record("reset_confirm", err) }()

	verified, err := provider.verify(ctx, types.VerificationTypeRecovery, token)
	if err != nil {
		if clientError(err) {
			return apperr.BadRequest(MsgInvalidResetToken)
		}
		return fmt.Errorf("auth_gotrue_reset_verify_failed: %w", err)
	}

	_, err = provider.call(ctx, verified.accessToken).UpdateUser(types.UpdateUserRequest{Password: &newPassword})
	if err = upstreamError(err); err != nil {
		if clientError(err) {
			return apperr.BadRequest(rejection(err)).WithCause(err)
		}
		return fmt.Errorf("auth_gotrue_reset_update_failed: %w", err)
	}
	return nil
}

// verifiedToken is the identity an emailed token was redeemed for.
type verifiedToken struct {
	accessToken string
	user        types.User
}

// verify redeems token on GET /verify and resolves the session it yields
// into its user.
func (provider *GoTrueProvider) verify(ctx context.Context, kind types.VerificationType, token string) (*verifiedToken, error) {
	if token == "" {
		return nil, &GoTrueError{Status: http.StatusBadRequest, Message: "token is required"}
	}

	answer, err := provider.call(ctx, "").Verify(types.VerifyRequest{
		Type:       kind,
		Token:      token,
		RedirectTo: provider.config.RedirectURL,
	})
	if err = upstreamError(err); err != nil {
		return nil, err
	}
	if answer.Error != "" || answer.ErrorCode != "" {
		message := answer.ErrorDescription
		if message == "" {
			message = answer.Error
		}
		return nil, &GoTrueError{Status: http.StatusBadRequest, Message: message}
	}
	if answer.AccessToken == "" {
		return nil, &GoTrueError{Status: http.StatusBadRequest, Message: "no session returned"}
	}

	current, err := provider.call(ctx, answer.AccessToken).GetUser()
	if err = upstreamError(err); err != nil {
		return nil, err
	}
	return &verifiedToken{accessToken: answer.AccessToken, user: current.User}, nil
}

// # Email Verification

// ConfirmEmail redeems a sign-up token on GoTrue and flags the local profile
// as verified.
func (provider *GoTrueProvider) ConfirmEmail(ctx context.Context, token string) (email string, err error) {
	defer func() { record("verify_email", err) }()

	verified, err := provider.verify(ctx, types.VerificationTypeSignup, token)
	if err != nil {
		if clientError(err) {
			return "", apperr.BadRequest(MsgInvalidVerifyToken)
		}
		return "", fmt.Errorf("auth_gotrue_verify_failed: %w", err)
	}

	err = provider.profiles.Update(ctx, verified.user.ID.String(), ProfileUpdate{EmailVerified: pointer.To(true)})
	if err != nil && !apperr.HasCode(err, "NOT_FOUND") {
		return "", fmt.Errorf("auth_gotrue_verify_store_failed: %w", err)
	}
	return verified.user.Email, nil
}

// ResendVerification asks GoTrue for a new confirmation mail. The server
// answers an email OTP request for an unconfirmed user with the sign-up
// confirmation; CreateUser stays off so unknown addresses are not enrolled.
func (provider *GoTrueProvider) ResendVerification(ctx context.Context, email string) (err error) {
	defer func() { record("resend_verification", err) }()

	email = normalizeEmail(email)
	profile, err := provider.profiles.FindByEmail(ctx, email)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return apperr.NotFoundMessage(MsgUserNotFound)
		}
		return fmt.Errorf("auth_gotrue_resend_lookup_failed: %w", err)
	}
	if profile.EmailVerified {
		return apperr.BadRequest(MsgAlreadyVerified)
	}

	err = upstreamError(provider.call(ctx, "").OTP(types.OTPRequest{Email: email, CreateUser: false}))
	if err != nil {
		return apperr.InternalMessage(MsgVerificationFailed, err)
	}
	return nil
}

// # Profile

// Profile returns the public view of userID from the local store.
func (provider *GoTrueProvider) Profile(ctx context.Context, userID string) (*PublicUser, error) {
	profile, err := provider.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.Public(), nil
}
