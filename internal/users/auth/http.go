// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	requestutil "github.com/taibuivan/shopora/internal/platform/request"
	"github.com/taibuivan/shopora/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the /auth endpoints on top of an [IdentityProvider].
type Handler struct {
	provider IdentityProvider
}

// NewHandler constructs a new [Handler].
func NewHandler(provider IdentityProvider) *Handler {
	return &Handler{provider: provider}
}

// Routes returns the /auth router. authenticate guards the endpoints that
// need a signed-in identity.
//
// # Endpoints
//   - POST /signup, /signin, /refresh
//   - POST /reset-password, /update-password
//   - POST /verify-email/callback, GET /verify-email
//   - POST /resend-verification
//   - POST /signout, GET /me (authenticated)
func (handler *Handler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signUp)
	router.Post("/signin", handler.signIn)
	router.Post("/refresh", handler.refresh)
	router.Post("/reset-password", handler.requestPasswordReset)
	router.Post("/update-password", handler.updatePassword)
	router.Post("/verify-email/callback", handler.verifyEmailCallback)
	router.Get("/verify-email", handler.verifyEmailLink)
	router.Post("/resend-verification", handler.resendVerification)

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/signout", handler.signOut)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"required,max=100"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type updatePasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type tokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type verifiedEmail struct {
	Email string `json:"email"`
}

/*
SignUp registers a new identity.

POST /api/v1/auth/signup

Response:
  - 201: PublicUser
  - 400: Validation failure
  - 409: Email already registered
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.provider.SignUp(request.Context(), SignUpInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, MsgSignUpSucceeded, map[string]any{"user": user})
}

/*
SignIn authenticates with email and password.

POST /api/v1/auth/signin

Response:
  - 200: SignInResult
  - 401: Invalid email or password
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.provider.SignIn(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgSignInSucceeded, result)
}

/*
Refresh exchanges a refresh token for a new pair.

POST /api/v1/auth/refresh

Response:
  - 200: SignInResult
  - 401: Invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.provider.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgRefreshSucceeded, result)
}

// signOut ends the caller's session. POST /api/v1/auth/signout
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, _ := requestutil.BearerToken(request)
	if err := handler.provider.SignOut(request.Context(), userID, token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgSignOutSucceeded, nil)
}

// me returns the caller's profile. GET /api/v1/auth/me
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.provider.Profile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
RequestPasswordReset starts password recovery.

POST /api/v1/auth/reset-password

Response:
  - 200: Always, for known and unknown addresses alike
  - 400: Validation failure
*/
func (handler *Handler) requestPasswordReset(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.provider.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgResetRequested, nil)
}

/*
UpdatePassword completes password recovery.

POST /api/v1/auth/update-password

Response:
  - 200: Password updated
  - 400: Invalid or expired reset token
*/
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	var input updatePasswordRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.provider.ConfirmPasswordReset(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgPasswordUpdated, nil)
}

// verifyEmailCallback confirms an address from a JSON body.
// POST /api/v1/auth/verify-email/callback
func (handler *Handler) verifyEmailCallback(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.confirmEmail(writer, request, input.Token)
}

// verifyEmailLink confirms an address from the mailed link.
// GET /api/v1/auth/verify-email?token=
func (handler *Handler) verifyEmailLink(writer http.ResponseWriter, request *http.Request) {
	token := request.URL.Query().Get(FieldToken)
	if token == "" {
		respond.Error(writer, request, apperr.BadRequest(MsgInvalidVerifyToken))
		return
	}
	handler.confirmEmail(writer, request, token)
}

func (handler *Handler) confirmEmail(writer http.ResponseWriter, request *http.Request, token string) {
	email, err := handler.provider.ConfirmEmail(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgEmailVerified, verifiedEmail{Email: email})
}

/*
ResendVerification mails a fresh verification link.

POST /api/v1/auth/resend-verification

Response:
  - 200: Sent
  - 400: Already verified
  - 404: Unknown email
  - 500: Mail delivery failed
*/
func (handler *Handler) resendVerification(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.provider.ResendVerification(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgVerificationResent, nil)
}
