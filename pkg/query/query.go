// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-shaped values out of query strings and
// multipart form fields.
package query

import (
	"strings"
)

// StringSlice parses a single comma-separated value into a trimmed slice of
// non-empty strings. It returns nil for an empty input.
//
// Product forms send sizes, colors and remove_images this way
// ("S, M, L").
func StringSlice(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Values flattens repeated form fields that may themselves be comma lists.
//
// Both "sizes=S&sizes=M" and "sizes=S,M" yield [S M].
func Values(vals []string) []string {
	var res []string
	for _, v := range vals {
		res = append(res, StringSlice(v)...)
	}
	return res
}
