// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopora/internal/platform/apperr"
)

/*
TestConstructors checks the code and status of each constructor.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"not_found", apperr.NotFound("Product"), "NOT_FOUND", http.StatusNotFound},
		{"bad_request", apperr.BadRequest("Email already verified"), "BAD_REQUEST", http.StatusBadRequest},
		{"validation", apperr.ValidationError("Validation failed"), "VALIDATION_ERROR", http.StatusBadRequest},
		{"unauthorized", apperr.Unauthorized("x"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("x"), "FORBIDDEN", http.StatusForbidden},
		{"conflict", apperr.Conflict("x"), "CONFLICT", http.StatusConflict},
		{"duplicate_input", apperr.Duplicate("x"), "CONFLICT", http.StatusBadRequest},
		{"internal", apperr.Internal(errors.New("db down")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	assert.Equal(t, "Product not found", apperr.NotFound("Product").Error())
	assert.Equal(t, "Product is not available", apperr.NotFoundMessage("Product is not available").Error())
}

/*
TestAs finds an AppError through fmt.Errorf wrapping.
*/
func TestAs(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("auth_service_sign_in_failed: %w", apperr.Internal(cause))

	found := apperr.As(wrapped)
	require.NotNil(t, found)
	assert.Equal(t, "INTERNAL_ERROR", found.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, apperr.HasCode(wrapped, "INTERNAL_ERROR"))

	assert.Nil(t, apperr.As(cause))
	assert.False(t, apperr.IsAppError(cause))
}

func TestWithCause_DoesNotMutate(t *testing.T) {
	base := apperr.Conflict("Email already registered")
	withCause := base.WithCause(errors.New("23505"))

	assert.Nil(t, base.Cause)
	assert.NotNil(t, withCause.Cause)
	assert.Equal(t, base.Message, withCause.Message)
}
