// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries request-scoped values through [context.Context]:
// the correlation id, the request logger and the resolved identity.
package ctxutil

import (
	"context"

	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/ctxkey"
	"github.com/taibuivan/shopora/internal/platform/sec"
)

// # Request Tracing

// WithRequestID attaches the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the request id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger attaches the per-request logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, falling back to the zap global
// logger outside a request.
func GetLogger(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*zap.Logger)
	if !ok || logger == nil {
		return zap.L()
	}
	return logger
}

// # Identity & Access

// WithAuthUser attaches the resolved identity. When a request logger is
// present it is rebound with user_id and role so that every later log line
// of the request names the caller. The email is never added.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeyUser, user)
	if user == nil {
		return ctx
	}

	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*zap.Logger); ok && logger != nil {
		ctx = WithLogger(ctx, logger.With(
			zap.String("user_id", user.UserID),
			zap.String("role", string(user.Role)),
		))
	}
	return ctx
}

// GetAuthUser returns the identity set by the authorization gate, or nil.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
