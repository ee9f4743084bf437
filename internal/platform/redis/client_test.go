// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/shopora/internal/platform/redis"
)

/*
TestParseOptions covers pool sizing and the blocking read deadline.
*/
func TestParseOptions(t *testing.T) {
	tests := []struct {
		name        string
		options     redis.Options
		wantPool    int
		wantReadTTL time.Duration
		wantDB      int
	}{
		{"defaults", redis.Options{URL: "redis://localhost:6379/0"}, 10, 2 * time.Second, 0},
		{"sized", redis.Options{URL: "redis://localhost:6379/3", PoolSize: 4}, 4, 2 * time.Second, 3},
		{"blocking_worker", redis.Options{URL: "redis://localhost:6379/0", Blocking: true}, 10, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := redis.ParseOptions(tt.options)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPool, parsed.PoolSize)
			assert.Equal(t, tt.wantReadTTL, parsed.ReadTimeout)
			assert.Equal(t, tt.wantDB, parsed.DB)
			assert.LessOrEqual(t, parsed.MinIdleConns, parsed.MaxIdleConns)
		})
	}
}

func TestParseOptions_InvalidURL(t *testing.T) {
	_, err := redis.ParseOptions(redis.Options{URL: "mysql://nope"})
	assert.Error(t, err)
}
