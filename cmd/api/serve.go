// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/api"
	"github.com/taibuivan/shopora/internal/catalog/category"
	"github.com/taibuivan/shopora/internal/catalog/product"
	"github.com/taibuivan/shopora/internal/catalog/review"
	"github.com/taibuivan/shopora/internal/platform/background"
	"github.com/taibuivan/shopora/internal/platform/constants"
	"github.com/taibuivan/shopora/internal/platform/migration"
	pgstore "github.com/taibuivan/shopora/internal/platform/postgres"
	redisstore "github.com/taibuivan/shopora/internal/platform/redis"
	"github.com/taibuivan/shopora/internal/sales/order"
	"github.com/taibuivan/shopora/internal/users/auth"
	"github.com/taibuivan/shopora/pkg/clock"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

/*
serve runs the API until SIGINT or SIGTERM.

Startup sequence:

 1. Configuration and logger.
 2. PostgreSQL and Redis.
 3. Database migrations (idempotent).
 4. Object storage, mail queue and identity provider.
 5. Domain services and handlers.
 6. HTTP server with graceful shutdown of requests and background mail.
*/
func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// A bounded startup so that misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(parent, 30*time.Second)
	defer startupCancel()

	// # Infrastructure
	pool, err := pgstore.NewPool(startupCtx, databaseOptions(cfg), log)
	if err != nil {
		return stage("connect_postgres", err)
	}
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	redisClient, err := redisstore.NewClient(startupCtx, redisstore.Options{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize}, log)
	if err != nil {
		return stage("connect_redis", err)
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			log.Error("redis_close_failed", zap.Error(closeErr))
		}
	}()

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return stage("run_migrations", err)
	}

	images, closeStorage, err := openStorage(startupCtx, cfg)
	if err != nil {
		return stage("open_storage", err)
	}
	defer func() { _ = closeStorage() }()
	if err := images.EnsureBucket(startupCtx); err != nil {
		return stage("ensure_bucket", err)
	}

	queue, err := openQueue(startupCtx, cfg, redisClient)
	if err != nil {
		return stage("open_mail_queue", err)
	}
	if queue != nil {
		defer func() { _ = queue.Close() }()
	}

	// # Domain Wiring
	clk := clock.System()
	runner := background.NewRunner(log, constants.BackgroundTaskTimeout)

	profiles := auth.NewPostgresProfileStore(pool, clk)
	identities, err := identityProvider(cfg, profiles, mailers(cfg, queue, clk), runner, clk)
	if err != nil {
		return stage("identity_provider", err)
	}

	categoryService := category.NewService(category.NewPostgresRepository(pool), log)
	productService := product.NewService(product.NewPostgresRepository(pool), images, clk, log)
	reviewService := review.NewService(review.NewPostgresRepository(pool), productService, log)
	orderService := order.NewService(order.NewPostgresRepository(pool), productService, clk, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, redisClient) },
	}, log)

	server := api.NewServer(cfg, log,
		api.Gate{Verifier: identities, Resolver: auth.NewProfileResolver(profiles)},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Auth:      auth.NewHandler(identities),
			Category:  category.NewHandler(categoryService),
			Product:   product.NewHandler(productService),
			Review:    review.NewHandler(reviewService),
			Order:     order.NewHandler(orderService),
		},
	)

	// # Lifecycle
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		log.Error("server_failed", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	log.Info("server_shutting_down", zap.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		return stage("shutdown_server", err)
	}
	if err := runner.Wait(shutdownCtx); err != nil {
		log.Warn("background_tasks_abandoned", zap.Error(err))
	}

	log.Info("server_stopped")
	return nil
}
