// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are the human-readable identifiers of categories and products
// (e.g., "mens-t-shirt"). This package handles normalization, accent removal,
// character sanitization and collision resolution against a store.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// whitespace matches any run of whitespace, including Unicode space
	// separators such as U+00A0 and U+2003 that \s alone misses.
	whitespace = regexp.MustCompile(`[\s\p{Z}]+`)
	// disallowed matches anything outside the slug alphabet.
	disallowed = regexp.MustCompile(`[^a-z0-9_-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// ExistsFunc reports whether a candidate slug is already taken.
//
// Callers updating an existing record must exclude that record from the
// check, otherwise the record collides with its own unchanged slug.
type ExistsFunc func(context context.Context, candidate string) (bool, error)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Lowercases and trims the result.
// 3. Replaces whitespace runs with a single hyphen.
// 4. Strips every character outside [a-z0-9_-] (apostrophes vanish: "men's" → "mens").
// 5. Collapses repeated hyphens and trims leading/trailing hyphens.
func From(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	// 2. Lowercase + trim
	result = strings.TrimSpace(strings.ToLower(result))

	// 3. Whitespace to hyphens
	result = whitespace.ReplaceAllString(result, "-")

	// 4. Drop anything that is not part of the slug alphabet
	result = disallowed.ReplaceAllString(result, "")

	// 5. Clean up hyphenation
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// Unique derives a slug from text that is not yet taken according to exists.
//
// The base slug is tried first, then base-1, base-2, ... until a free
// candidate is found. The check-then-write sequence is not atomic; stores
// back it with a unique index and retry on violation.
func Unique(context context.Context, text string, exists ExistsFunc) (string, error) {
	base := From(text)

	taken, err := exists(context, base)
	if err != nil {
		return "", fmt.Errorf("slug_exists_check_failed: %w", err)
	}
	if !taken {
		return base, nil
	}

	for counter := 1; ; counter++ {
		if err := context.Err(); err != nil {
			return "", err
		}

		candidate := fmt.Sprintf("%s-%d", base, counter)
		taken, err := exists(context, candidate)
		if err != nil {
			return "", fmt.Errorf("slug_exists_check_failed: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
}

// ErrTaken is returned by the insert callback of [Claim] when the slug lost a
// race on the unique index.
var ErrTaken = errors.New("slug: already taken")

// Claim picks a slug with [Unique] and hands it to insert. When insert
// returns [ErrTaken] the slug is regenerated and insert is called again, up
// to attempts times in total. The last error is returned if every attempt
// collides.
func Claim(context context.Context, text string, exists ExistsFunc, attempts int, insert func(slug string) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		candidate, uniqueErr := Unique(context, text, exists)
		if uniqueErr != nil {
			return uniqueErr
		}

		err = insert(candidate)
		if !errors.Is(err, ErrTaken) {
			return err
		}
	}
	return err
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
