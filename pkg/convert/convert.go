// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant conversions for query-string values.

List endpoints accept optional filters (min_price, is_featured, in_stock).
An absent or unparseable value means "no filter", so the Optional* helpers
return nil instead of an error. Use strconv directly where malformed input
must be rejected.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts a string to an int, returning def if parsing fails or the
// string is empty.
func ToIntD(str string, def int) int {
	str = strings.TrimSpace(str)
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}

// OptionalFloat parses s as a float64. It returns nil when s is empty or
// not a number.
func OptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// OptionalBool parses s as a boolean ("true", "1", "false", "0", ...).
// It returns nil when s is empty or not a boolean.
func OptionalBool(s string) *bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}

// TrueOnly returns a pointer to true when s parses as true and nil otherwise.
// Public filters such as is_featured only ever narrow the result set.
func TrueOnly(s string) *bool {
	v := OptionalBool(s)
	if v == nil || !*v {
		return nil
	}
	return v
}
