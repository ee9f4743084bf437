// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ordernum produces date-scoped sequential order numbers.

Format:

	ORD-YYYYMMDD-NNN

The sequence component is zero-padded to three digits. A day with 1000 or
more orders renders a wider sequence (ORD-20251125-1000); the field is not
capped.
*/
package ordernum

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/shopora/pkg/clock"
)

// Prefix is the constant head of every order number.
const Prefix = "ORD"

// ExistsFunc reports whether an order number is already in use.
type ExistsFunc func(context context.Context, candidate string) (bool, error)

// Format renders the order number for counter on the calendar day of date.
func Format(counter int, date time.Time) string {
	return fmt.Sprintf("%s-%s-%03d", Prefix, date.Format("20060102"), counter)
}

// Unique returns the first free order number for the current day.
//
// The counter starts at 1 and increments until exists reports false. The
// date is sampled once so that a search spanning midnight stays on one day.
func Unique(context context.Context, clk clock.Clock, exists ExistsFunc) (string, error) {
	return UniqueFrom(context, clk, 1, exists)
}

// UniqueFrom behaves like [Unique] but starts the search at start. Stores use
// it to resume after a unique-constraint violation without rechecking the
// numbers already known to be taken.
func UniqueFrom(context context.Context, clk clock.Clock, start int, exists ExistsFunc) (string, error) {
	if start < 1 {
		start = 1
	}
	today := clk.Now()

	for counter := start; ; counter++ {
		if err := context.Err(); err != nil {
			return "", err
		}

		candidate := Format(counter, today)
		taken, err := exists(context, candidate)
		if err != nil {
			return "", fmt.Errorf("ordernum_exists_check_failed: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
}
