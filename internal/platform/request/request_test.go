// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	requestutil "github.com/taibuivan/shopora/internal/platform/request"
)

/*
TestBearerToken covers well-formed and malformed Authorization headers.
*/
func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase_scheme", "bearer abc", "abc", true},
		{"missing", "", "", false},
		{"wrong_scheme", "Basic dXNlcjpwYXNz", "", false},
		{"empty_token", "Bearer    ", "", false},
		{"scheme_only", "Bearer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			token, ok := requestutil.BearerToken(request)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

type payload struct {
	Email string `json:"email" validate:"required,email"`
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("invalid_json", func(t *testing.T) {
		request := httptest.NewRequest("POST", "/", strings.NewReader("{"))
		err := requestutil.DecodeAndValidate(httptest.NewRecorder(), request, &payload{})
		require.Error(t, err)
		assert.Equal(t, "Invalid JSON payload", err.Error())
	})

	t.Run("validation_failure", func(t *testing.T) {
		request := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope"}`))
		err := requestutil.DecodeAndValidate(httptest.NewRecorder(), request, &payload{})
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	})

	t.Run("ok", func(t *testing.T) {
		var target payload
		request := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co"}`))
		require.NoError(t, requestutil.DecodeAndValidate(httptest.NewRecorder(), request, &target))
		assert.Equal(t, "a@b.co", target.Email)
	})
}

func TestRequiredClaims_Unauthenticated(t *testing.T) {
	_, err := requestutil.RequiredClaims(httptest.NewRequest("GET", "/", nil))
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))
}

/*
TestUUIDParam accepts only the canonical hyphenated form.
*/
func TestUUIDParam(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"canonical", "0192f0c4-0000-7000-8000-000000000001", true},
		{"upper_case", "0192F0C4-0000-7000-8000-000000000001", true},
		{"no_hyphens", "0192f0c4000070008000000000000001", false},
		{"braced", "{0192f0c4-0000-7000-8000-000000000001}", false},
		{"garbage", "42", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routeContext := chi.NewRouteContext()
			routeContext.URLParams.Add("id", tt.value)
			request := httptest.NewRequest("GET", "/", nil)
			request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))

			value, err := requestutil.UUIDParam(request, "id")
			if !tt.ok {
				assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
				assert.Equal(t, "id", apperr.As(err).Details[0].Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, value)
		})
	}
}
