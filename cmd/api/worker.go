// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/platform/config"
	"github.com/taibuivan/shopora/internal/platform/mail"
	redisstore "github.com/taibuivan/shopora/internal/platform/redis"
	"github.com/taibuivan/shopora/pkg/clock"
)

func newWorkerCommand() *cobra.Command {
	worker := &cobra.Command{
		Use:   "worker",
		Short: "Run background consumers",
	}

	worker.AddCommand(&cobra.Command{
		Use:   "mail",
		Short: "Deliver queued account mail over SMTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMailWorker(cmd.Context())
		},
	})
	return worker
}

// runMailWorker consumes MAIL_QUEUE_CHANNEL until SIGINT or SIGTERM.
func runMailWorker(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.MailQueue == config.MailQueueNone {
		return errors.New("worker mail: MAIL_QUEUE is none, nothing to consume")
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisClient goredis.UniversalClient
	if cfg.MailQueue == config.MailQueueRedis {
		client, err := redisstore.NewClient(ctx, redisstore.Options{URL: cfg.RedisURL, PoolSize: 2, Blocking: true}, log)
		if err != nil {
			return stage("connect_redis", err)
		}
		defer func() { _ = client.Close() }()
		redisClient = client
	}

	queue, err := openQueue(ctx, cfg, redisClient)
	if err != nil {
		return stage("open_mail_queue", err)
	}
	defer func() {
		if closeErr := queue.Close(); closeErr != nil {
			log.Warn("mail_queue_close_failed", zap.Error(closeErr))
		}
	}()

	delivery := templateMailer(cfg, clock.System())
	return mail.NewWorker(queue, cfg.MailQueueChannel, delivery, log).Run(ctx)
}
