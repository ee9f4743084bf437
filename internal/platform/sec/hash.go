// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using bcrypt at the default cost.
//
// The empty string is accepted; length policy belongs to request validation.
// bcrypt rejects inputs longer than 72 bytes.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec_hash_password_failed: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash reports whether plainTextPassword matches existingHash.
// A malformed hash is reported as a mismatch.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	ok, _ := VerifyPasswordHash(plainTextPassword, existingHash)
	return ok
}

// VerifyPasswordHash distinguishes a mismatch (false, nil) from a hash that
// cannot be compared at all (false, err).
func VerifyPasswordHash(plainTextPassword, existingHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("sec_verify_password_failed: %w", err)
	}
}
