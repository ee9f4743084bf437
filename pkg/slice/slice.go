// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds small generic helpers that sit next to the standard
// [slices] package.
package slice

// Filter keeps the elements for which keep returns true.
func Filter[T any](input []T, keep func(T) bool) []T {
	if input == nil {
		return nil
	}

	var result []T
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// Without returns input minus every element present in drop, preserving order.
// Product updates use it to remove image URLs.
func Without[T comparable](input []T, drop []T) []T {
	if len(drop) == 0 {
		return input
	}

	set := make(map[T]struct{}, len(drop))
	for _, d := range drop {
		set[d] = struct{}{}
	}
	return Filter(input, func(v T) bool {
		_, found := set[v]
		return !found
	})
}

// OrEmpty returns input, or an empty non-nil slice when input is nil, so that
// JSON encodes [] instead of null.
func OrEmpty[T any](input []T) []T {
	if input == nil {
		return []T{}
	}
	return input
}
