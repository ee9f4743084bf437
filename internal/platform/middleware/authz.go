// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/shopora/internal/platform/request"
	"github.com/taibuivan/shopora/internal/platform/respond"
	"github.com/taibuivan/shopora/internal/platform/sec"
)

// TokenVerifier validates an access token.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*sec.AuthClaims, error)
}

// IdentityResolver loads the current state of an identity by id.
//
// It returns (nil, nil) when the identity does not exist.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, id string) (*sec.Principal, error)
}

// # Authentication

// Authenticate requires a valid bearer token that maps to an existing identity.
//
// # Flow
//  1. Missing or malformed 'Authorization: Bearer <token>' -> 401.
//  2. Token rejected by [TokenVerifier] -> 401.
//  3. Identity unknown to [IdentityResolver] -> 401. Nothing is created on
//     the fly.
//  4. The resolved identity is attached as [*sec.AuthClaims]. Role and email
//     come from the store, not from the token, so a role change applies on
//     the next request.
func Authenticate(verifier TokenVerifier, identities IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			logger := ctxutil.GetLogger(request.Context())

			// 1. Header format
			token, ok := requestutil.BearerToken(request)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("No token provided"))
				return
			}

			// 2. Signature and expiry
			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				logger.Debug("auth_gate_token_rejected", zap.Error(err))
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// 3. Identity must still exist
			principal, err := identities.ResolveIdentity(request.Context(), claims.UserID)
			if err != nil && !apperr.HasCode(err, "NOT_FOUND") {
				respond.Error(writer, request, err)
				return
			}
			if principal == nil {
				logger.Info("auth_gate_unknown_identity", zap.String("user_id", claims.UserID))
				respond.Error(writer, request, apperr.Unauthorized("User not found"))
				return
			}

			// 4. Attach the resolved identity
			resolved := *claims
			resolved.UserID = principal.ID
			resolved.Email = principal.Email
			resolved.Role = principal.Role

			ctx := ctxutil.WithAuthUser(request.Context(), &resolved)
			ctx = ctxutil.WithLogger(ctx, logger.With(zap.String("user_id", resolved.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Authorization

// RequireRole blocks requests whose identity is missing (401) or whose role is
// not one of roles (403). Register it after [Authenticate].
func RequireRole(roles ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !claims.Role.In(roles...) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAdmin admits administrators only.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(sec.RoleAdmin)
}

// RequireUser admits any signed-in identity.
func RequireUser() func(http.Handler) http.Handler {
	return RequireRole(sec.RoleAdmin, sec.RoleUser)
}
