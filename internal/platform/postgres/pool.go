// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the managed PostgreSQL connection pool shared by
// every store.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/constants"
	"github.com/taibuivan/shopora/internal/platform/metrics"
)

const (
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// Options sizes the pool. Zero values fall back to the storefront defaults.
type Options struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

// ParseConfig turns [Options] into a pgxpool configuration without dialing.
//
// Every connection gets a statement_timeout equal to the request deadline so
// that a slow query cannot outlive the handler that issued it.
func ParseConfig(options Options) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(options.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = 20
	if options.MaxConns > 0 {
		poolConfig.MaxConns = options.MaxConns
	}
	poolConfig.MinConns = 2
	if options.MinConns > 0 {
		poolConfig.MinConns = options.MinConns
	}
	if poolConfig.MinConns > poolConfig.MaxConns {
		return nil, fmt.Errorf("postgres: min conns %d exceeds max conns %d", poolConfig.MinConns, poolConfig.MaxConns)
	}

	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	statementTimeout := fmt.Sprintf("SET statement_timeout = '%ds'", int(constants.GlobalRequestTimeout.Seconds()))
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		_, err := connection.Exec(ctx, statementTimeout)
		return err
	}

	return poolConfig, nil
}

// NewPool creates and validates a new PostgreSQL connection pool and exports
// its occupancy on /metrics.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - options: DSN and pool sizing.
//   - logger: Structured logger for pool-level events.
func NewPool(ctx context.Context, options Options, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := ParseConfig(options)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	metrics.PoolGauge("postgres", "acquired", func() float64 { return float64(pool.Stat().AcquiredConns()) })
	metrics.PoolGauge("postgres", "idle", func() float64 { return float64(pool.Stat().IdleConns()) })
	metrics.PoolGauge("postgres", "total", func() float64 { return float64(pool.Stat().TotalConns()) })

	stats := pool.Stat()
	logger.Info("postgres_pool_connected",
		zap.Int32("max_conns", stats.MaxConns()),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Int32("total_conns", stats.TotalConns()),
	)

	return pool, nil
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
