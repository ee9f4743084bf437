// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed Redis client.

Shopora uses Redis for two things: the readiness check and, when
MAIL_QUEUE=redis, the list that carries mail jobs to the worker.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/metrics"
)

const (
	dialTimeout  = 3 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
	defaultPool  = 10
)

// Options configures the client.
type Options struct {
	URL      string
	PoolSize int

	// Blocking enables reads that wait on the server (BRPOP). The mail
	// worker sets it; the API process keeps the short read deadline.
	Blocking bool
}

// ParseOptions turns [Options] into go-redis options without dialing.
func ParseOptions(options Options) (*redis.Options, error) {
	parsed, err := redis.ParseURL(options.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	parsed.PoolSize = defaultPool
	if options.PoolSize > 0 {
		parsed.PoolSize = options.PoolSize
	}
	parsed.MinIdleConns = max(1, parsed.PoolSize/5)
	parsed.MaxIdleConns = max(parsed.MinIdleConns, parsed.PoolSize/2)

	parsed.DialTimeout = dialTimeout
	parsed.WriteTimeout = writeTimeout
	parsed.ReadTimeout = 2 * time.Second
	if options.Blocking {
		// -1 disables the deadline so BRPOP waits on its own timeout.
		parsed.ReadTimeout = -1
	}

	return parsed, nil
}

// NewClient returns a connected client and exports its pool occupancy.
//
// # Parameters
//   - context: Context for the initial ping.
//   - options: URL and pool sizing.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, options Options, logger *zap.Logger) (*redis.Client, error) {
	parsed, err := ParseOptions(options)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(parsed)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	metrics.PoolGauge("redis", "total", func() float64 { return float64(client.PoolStats().TotalConns) })
	metrics.PoolGauge("redis", "idle", func() float64 { return float64(client.PoolStats().IdleConns) })

	logger.Info("redis_client_connected",
		zap.String("addr", parsed.Addr),
		zap.Int("db", parsed.DB),
		zap.Int("pool_size", parsed.PoolSize),
		zap.Bool("blocking", options.Blocking),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
