// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/dberr"
)

/*
TestWrap classifies driver errors into application error codes.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, "NOT_FOUND"},
		{"unique", &pgconn.PgError{Code: dberr.CodeUniqueViolation}, "CONFLICT"},
		{"foreign_key", &pgconn.PgError{Code: dberr.CodeForeignKeyViolation}, "BAD_REQUEST"},
		{"other_pg", &pgconn.PgError{Code: "42P01"}, "INTERNAL_ERROR"},
		{"plain", errors.New("connection reset"), "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(fmt.Errorf("scan: %w", tt.err), "find_product")
			ae := apperr.As(wrapped)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			assert.ErrorIs(t, wrapped, tt.err)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "product_slug_key"})

	assert.True(t, dberr.IsUniqueViolation(err, "product_slug_key"))
	assert.True(t, dberr.IsUniqueViolation(err, ""))
	assert.False(t, dberr.IsUniqueViolation(err, "product_sku_key"))
	assert.False(t, dberr.IsUniqueViolation(errors.New("x"), ""))
	assert.False(t, dberr.IsForeignKeyViolation(err, ""))
}
