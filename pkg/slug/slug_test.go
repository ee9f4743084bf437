// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopora/pkg/slug"
)

/*
TestFrom covers the slug transformation pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"apostrophe_and_punctuation", "Men's T-Shirt!!", "mens-t-shirt"},
		{"surrounding_whitespace", "   Summer   Sale  ", "summer-sale"},
		{"underscore_kept", "snake_case name", "snake_case-name"},
		{"accent_folded", "Café Crème", "cafe-creme"},
		{"hyphen_runs", "a -- b", "a-b"},
		{"leading_trailing_hyphens", "--Shoes--", "shoes"},
		{"only_symbols", "!!!", ""},
		{"digits", "Air Max 90", "air-max-90"},
		{"no_break_space", "a\u00a0b", "a-b"},
		{"em_space_with_accent", "Naïve\u2003Shoes", "naive-shoes"},
		{"ideographic_space", "Summer\u3000Sale", "summer-sale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestUnique verifies the numeric disambiguator suffix.
*/
func TestUnique(t *testing.T) {
	taken := func(values ...string) slug.ExistsFunc {
		set := map[string]bool{}
		for _, v := range values {
			set[v] = true
		}
		return func(_ context.Context, candidate string) (bool, error) {
			return set[candidate], nil
		}
	}

	tests := []struct {
		name   string
		exists slug.ExistsFunc
		want   string
	}{
		{"unused_base", taken(), "shoes"},
		{"base_taken", taken("shoes"), "shoes-1"},
		{"base_and_first_taken", taken("shoes", "shoes-1"), "shoes-2"},
		{"gap_is_not_reused_before_base", taken("shoes-1"), "shoes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := slug.Unique(context.Background(), "Shoes", tt.exists)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestUnique_ExistsError verifies that store failures are propagated.
*/
func TestUnique_ExistsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := slug.Unique(context.Background(), "Shoes", func(context.Context, string) (bool, error) {
		return false, boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

/*
TestUnique_ContextCancelled stops the search once the context is done.
*/
func TestUnique_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := slug.Unique(ctx, "Shoes", func(context.Context, string) (bool, error) {
		return true, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

/*
TestClaim regenerates the slug after a lost race and gives up after the
configured number of attempts.
*/
func TestClaim(t *testing.T) {
	t.Run("retries_after_collision", func(t *testing.T) {
		stored := map[string]bool{}
		var attempts []string

		err := slug.Claim(context.Background(), "Shoes", func(_ context.Context, candidate string) (bool, error) {
			return stored[candidate], nil
		}, 3, func(candidate string) error {
			attempts = append(attempts, candidate)
			if len(attempts) == 1 {
				// A concurrent writer took the slug between check and insert.
				stored[candidate] = true
				return slug.ErrTaken
			}
			stored[candidate] = true
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"shoes", "shoes-1"}, attempts)
	})

	t.Run("gives_up", func(t *testing.T) {
		calls := 0
		err := slug.Claim(context.Background(), "Shoes", func(context.Context, string) (bool, error) {
			return false, nil
		}, 2, func(string) error {
			calls++
			return slug.ErrTaken
		})

		assert.ErrorIs(t, err, slug.ErrTaken)
		assert.Equal(t, 2, calls)
	})

	t.Run("other_errors_pass_through", func(t *testing.T) {
		boom := errors.New("boom")
		err := slug.Claim(context.Background(), "Shoes", func(context.Context, string) (bool, error) {
			return false, nil
		}, 3, func(string) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
