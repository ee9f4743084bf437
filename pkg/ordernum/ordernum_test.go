// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ordernum_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopora/pkg/clock"
	"github.com/taibuivan/shopora/pkg/ordernum"
)

/*
TestFormat checks zero padding and the date component.
*/
func TestFormat(t *testing.T) {
	day := time.Date(2025, time.November, 25, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name    string
		counter int
		want    string
	}{
		{"first", 1, "ORD-20251125-001"},
		{"two_digits", 42, "ORD-20251125-042"},
		{"three_digits", 999, "ORD-20251125-999"},
		{"overflow_widens", 1000, "ORD-20251125-1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ordernum.Format(tt.counter, day))
		})
	}
}

/*
TestUnique skips numbers already taken for the current day.
*/
func TestUnique(t *testing.T) {
	clk := clock.Fixed(time.Date(2025, time.November, 25, 9, 0, 0, 0, time.UTC))
	taken := map[string]bool{"ORD-20251125-001": true}

	var checked []string
	got, err := ordernum.Unique(context.Background(), clk, func(_ context.Context, candidate string) (bool, error) {
		checked = append(checked, candidate)
		return taken[candidate], nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ORD-20251125-002", got)
	assert.Equal(t, []string{"ORD-20251125-001", "ORD-20251125-002"}, checked)
}

/*
TestUniqueFrom resumes the search after a known collision.
*/
func TestUniqueFrom(t *testing.T) {
	clk := clock.Fixed(time.Date(2025, time.November, 25, 9, 0, 0, 0, time.UTC))

	got, err := ordernum.UniqueFrom(context.Background(), clk, 3, func(context.Context, string) (bool, error) {
		return false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ORD-20251125-003", got)
}
