// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides password hashing, session tokens and opaque
// single-use tokens.
//
// # Sessions
//
// A session is a pair of HS256 JWTs. Access and refresh tokens are signed with
// different secrets, so one can never be presented as the other. The
// [TokenService] performs no I/O; checking a refresh token against the stored
// value is the caller's job.
package sec

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/shopora/pkg/clock"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// expiry, malformed input, unexpected algorithm or wrong issuer.
var ErrInvalidToken = errors.New("invalid token")

// Principal is the identity a session is minted for.
type Principal struct {
	ID    string
	Email string
	Role  UserRole
}

// AuthClaims is the payload of both access and refresh tokens.
type AuthClaims struct {
	jwt.RegisteredClaims

	// UserID is serialized as "id"; the embedded ID is the "jti" claim.
	UserID string   `json:"id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
}

// TokenConfig carries the signing material and lifetimes.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// TokenService issues and verifies session tokens.
type TokenService struct {
	config TokenConfig
	clock  clock.Clock
	parser *jwt.Parser
}

// NewTokenService creates a [TokenService]. Time is read from clk for both
// issuing and validation.
func NewTokenService(config TokenConfig, clk clock.Clock) *TokenService {
	return &TokenService{
		config: config,
		clock:  clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(clk.Now),
			jwt.WithIssuer(config.Issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// AccessTTL returns the access token lifetime.
func (service *TokenService) AccessTTL() time.Duration {
	return service.config.AccessTTL
}

// # Issuing

// IssueAccessToken signs a short-lived access token for principal.
func (service *TokenService) IssueAccessToken(principal Principal) (string, error) {
	return service.issue(principal, service.config.AccessSecret, service.config.AccessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for principal.
func (service *TokenService) IssueRefreshToken(principal Principal) (string, error) {
	return service.issue(principal, service.config.RefreshSecret, service.config.RefreshTTL)
}

func (service *TokenService) issue(principal Principal, secret string, ttl time.Duration) (string, error) {
	now := service.clock.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principal.ID,
			Issuer:    service.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: principal.ID,
		Email:  principal.Email,
		Role:   principal.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sec_sign_token_failed: %w", err)
	}
	return signed, nil
}

// # Verification

// VerifyAccessToken validates an access token and returns its claims.
func (service *TokenService) VerifyAccessToken(token string) (*AuthClaims, error) {
	return service.verify(token, service.config.AccessSecret)
}

// VerifyRefreshToken validates a refresh token and returns its claims.
func (service *TokenService) VerifyRefreshToken(token string) (*AuthClaims, error) {
	return service.verify(token, service.config.RefreshSecret)
}

func (service *TokenService) verify(token, secret string) (*AuthClaims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := service.parser.ParseWithClaims(token, &AuthClaims{}, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*AuthClaims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokensEqual compares two token strings in constant time.
func TokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
