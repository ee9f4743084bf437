// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/shopora/internal/platform/apperr"
	"github.com/taibuivan/shopora/internal/platform/dberr"
	"github.com/taibuivan/shopora/internal/platform/sec"
	"github.com/taibuivan/shopora/pkg/clock"
)

// # Profile Repository

const profileColumns = `
	id, email, passwordhash, fullname, role, emailverified,
	verifytoken, verifytokenexpiresat, resettoken, resettokenexpiresat,
	refreshtoken, avatarurl, createdat, updatedat`

// PostgresProfileStore implements [ProfileStore] on users.profile.
type PostgresProfileStore struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

// NewPostgresProfileStore creates a [PostgresProfileStore].
func NewPostgresProfileStore(pool *pgxpool.Pool, clk clock.Clock) *PostgresProfileStore {
	return &PostgresProfileStore{pool: pool, clock: clk}
}

func scanProfile(row pgx.Row) (*Profile, error) {
	profile := &Profile{}
	err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.PasswordHash,
		&profile.FullName,
		&profile.Role,
		&profile.EmailVerified,
		&profile.VerifyToken,
		&profile.VerifyTokenExpiresAt,
		&profile.ResetToken,
		&profile.ResetTokenExpiresAt,
		&profile.RefreshToken,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	return profile, err
}

func (repository *PostgresProfileStore) findOne(context context.Context, action, where string, args ...any) (*Profile, error) {
	query := "SELECT" + profileColumns + " FROM users.profile WHERE " + where

	profile, err := scanProfile(repository.pool.QueryRow(context, query, args...))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFoundMessage(MsgUserNotFound)
		}
		return nil, dberr.Wrap(err, action)
	}
	return profile, nil
}

// FindByEmail implements [ProfileStore].
func (repository *PostgresProfileStore) FindByEmail(context context.Context, email string) (*Profile, error) {
	return repository.findOne(context, "find_profile_by_email", "email = $1", strings.ToLower(email))
}

// FindByID implements [ProfileStore].
func (repository *PostgresProfileStore) FindByID(context context.Context, id string) (*Profile, error) {
	return repository.findOne(context, "find_profile_by_id", "id = $1", id)
}

// FindByVerificationToken implements [ProfileStore].
func (repository *PostgresProfileStore) FindByVerificationToken(context context.Context, token string, now time.Time) (*Profile, error) {
	return repository.findOne(context, "find_profile_by_verify_token",
		"verifytoken = $1 AND verifytokenexpiresat >= $2", token, now)
}

// FindByResetToken implements [ProfileStore].
func (repository *PostgresProfileStore) FindByResetToken(context context.Context, token string, now time.Time) (*Profile, error) {
	return repository.findOne(context, "find_profile_by_reset_token",
		"resettoken = $1 AND resettokenexpiresat >= $2", token, now)
}

/*
Create inserts a new row into users.profile.

Description: A unique violation on the email index is reported as the same
conflict the service raises for a pre-checked duplicate, so a concurrent
sign-up with the same address cannot slip through.

Parameters:
  - context: context.Context
  - profile: *Profile

Returns:
  - error: CONFLICT or database failures
*/
func (repository *PostgresProfileStore) Create(context context.Context, profile *Profile) error {
	const query = `
		INSERT INTO users.profile (
			id, email, passwordhash, fullname, role, emailverified,
			verifytoken, verifytokenexpiresat, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := repository.clock.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	profile.Email = strings.ToLower(profile.Email)

	_, err := repository.pool.Exec(context, query,
		profile.ID,
		profile.Email,
		profile.PasswordHash,
		profile.FullName,
		profile.Role,
		profile.EmailVerified,
		profile.VerifyToken,
		profile.VerifyTokenExpiresAt,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err, ConstraintProfileEmail) {
			return apperr.Duplicate(MsgEmailRegistered).WithCause(err)
		}
		return dberr.Wrap(err, "create_profile")
	}

	return nil
}

/*
Update applies only the fields set in update, plus updatedat.

Parameters:
  - context: context.Context
  - id: string
  - update: ProfileUpdate

Returns:
  - error: NOT_FOUND or database failures
*/
func (repository *PostgresProfileStore) Update(context context.Context, id string, update ProfileUpdate) error {
	if update.Empty() {
		return nil
	}

	var (
		set  []string
		args = []any{id}
	)
	assign := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.PasswordHash != nil {
		assign("passwordhash", *update.PasswordHash)
	}
	if update.FullName != nil {
		assign("fullname", *update.FullName)
	}
	if update.EmailVerified != nil {
		assign("emailverified", *update.EmailVerified)
	}
	if update.VerifyToken != nil {
		token, expires := tokenColumns(update.VerifyToken)
		assign("verifytoken", token)
		assign("verifytokenexpiresat", expires)
	}
	if update.ResetToken != nil {
		token, expires := tokenColumns(update.ResetToken)
		assign("resettoken", token)
		assign("resettokenexpiresat", expires)
	}
	if update.RefreshToken != nil {
		var refresh *string
		if *update.RefreshToken != "" {
			refresh = update.RefreshToken
		}
		assign("refreshtoken", refresh)
	}
	assign("updatedat", repository.clock.Now())

	var query strings.Builder
	query.WriteString("UPDATE users.profile SET ")
	query.WriteString(strings.Join(set, ", "))
	query.WriteString(" WHERE id = $1")

	tag, err := repository.pool.Exec(context, query.String(), args...)
	if err != nil {
		return dberr.Wrap(err, "update_profile")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundMessage(MsgUserNotFound)
	}
	return nil
}

// tokenColumns maps a change to (token, expiry) column values; a clear
// yields two NULLs.
func tokenColumns(change *TokenChange) (*string, *time.Time) {
	if change.Token == "" {
		return nil, nil
	}
	token, expires := change.Token, change.ExpiresAt
	return &token, &expires
}

// SetRole implements [ProfileStore].
func (repository *PostgresProfileStore) SetRole(context context.Context, email string, role sec.UserRole) (*Profile, error) {
	query := "UPDATE users.profile SET role = $2, updatedat = $3 WHERE email = $1 RETURNING" + profileColumns

	profile, err := scanProfile(repository.pool.QueryRow(context, query, strings.ToLower(email), role, repository.clock.Now()))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFoundMessage(MsgUserNotFound)
		}
		return nil, dberr.Wrap(err, "set_profile_role")
	}
	return profile, nil
}
