// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/taibuivan/shopora/pkg/clock"
)

// DefaultTokenBytes yields a 64-character hex token.
const DefaultTokenBytes = 32

// RandomToken returns n cryptographically random bytes, hex encoded.
// Verification and reset links carry these values; they must never be logged.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		n = DefaultTokenBytes
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec_random_token_failed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ExpiryTimestamp returns the instant hours from now on clk.
func ExpiryTimestamp(clk clock.Clock, hours int) time.Time {
	return clk.Now().Add(time.Duration(hours) * time.Hour)
}

// TokenLive reports whether a token expiring at expiresAt is still usable at
// now. The boundary instant counts as live.
func TokenLive(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && !expiresAt.Before(now)
}
