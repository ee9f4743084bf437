// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/shopora/internal/platform/background"
	"github.com/taibuivan/shopora/internal/platform/config"
	"github.com/taibuivan/shopora/internal/platform/constants"
	"github.com/taibuivan/shopora/internal/platform/mail"
	"github.com/taibuivan/shopora/internal/platform/mq"
	pgstore "github.com/taibuivan/shopora/internal/platform/postgres"
	"github.com/taibuivan/shopora/internal/platform/sec"
	"github.com/taibuivan/shopora/internal/platform/storage"
	"github.com/taibuivan/shopora/internal/users/auth"
	"github.com/taibuivan/shopora/pkg/clock"
)

// # Database

// databaseOptions sizes the Postgres pool from configuration.
func databaseOptions(cfg *config.Config) pgstore.Options {
	return pgstore.Options{DSN: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns}
}

// # Object Storage

// openStorage selects the product image backend.
func openStorage(ctx context.Context, cfg *config.Config) (*storage.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.StorageGCS:
		client, err := storage.NewGCSClient(ctx, storage.GCSConfig{
			Bucket:          cfg.StorageBucket,
			ProjectID:       cfg.GCSProjectID,
			CredentialsFile: cfg.GCSCredentialsFile,
		})
		if err != nil {
			return nil, noop, err
		}
		return storage.NewStore(client, publicBase(cfg, "https://storage.googleapis.com")), client.Close, nil

	default:
		client, err := storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.StorageBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			return nil, noop, err
		}
		scheme := "http"
		if cfg.MinIOUseSSL {
			scheme = "https"
		}
		return storage.NewStore(client, publicBase(cfg, scheme+"://"+cfg.MinIOEndpoint)), noop, nil
	}
}

// publicBase is STORAGE_PUBLIC_URL when set, otherwise the bucket URL on
// the backend's own host.
func publicBase(cfg *config.Config, host string) string {
	if cfg.StoragePublicURL != "" {
		return cfg.StoragePublicURL
	}
	return strings.TrimRight(host, "/") + "/" + cfg.StorageBucket
}

// # Mail

// openQueue connects the mail queue backend. It returns nil when
// MAIL_QUEUE=none.
func openQueue(ctx context.Context, cfg *config.Config, redisClient goredis.UniversalClient) (mq.Backend, error) {
	switch cfg.MailQueue {
	case config.MailQueueRedis:
		return mq.NewRedisListBackend(redisClient), nil

	case config.MailQueueRabbitMQ:
		client, err := mq.NewRabbitMQClient(mq.RabbitMQConfig{URL: cfg.RabbitMQURL, PrefetchCount: 10})
		if err != nil {
			return nil, err
		}
		return client, nil

	case config.MailQueuePubSub:
		client, err := mq.NewPubSubClient(ctx, mq.PubSubConfig{
			ProjectID:          cfg.PubSubProjectID,
			CredentialsFile:    cfg.PubSubCredentialsFile,
			SubscriptionSuffix: "-worker",
		})
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, nil
	}
}

// templateMailer renders and sends account mail over SMTP.
func templateMailer(cfg *config.Config, clk clock.Clock) *mail.TemplateMailer {
	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.AppName,
	})
	return mail.NewTemplateMailer(sender, mail.Branding{AppName: cfg.AppName, AppURL: cfg.PublicAppURL()}, clk)
}

// mailers routes best-effort mail through the queue when one is configured.
func mailers(cfg *config.Config, queue mq.Backend, clk clock.Clock) auth.Mailers {
	direct := templateMailer(cfg, clk)
	if queue == nil {
		return auth.Mailers{Deferred: direct, Direct: direct}
	}
	return auth.Mailers{Deferred: mail.NewQueueMailer(queue, cfg.MailQueueChannel), Direct: direct}
}

// # Identity

// identityProvider selects the local or GoTrue implementation.
func identityProvider(cfg *config.Config, profiles auth.ProfileStore, mailing auth.Mailers, runner *background.Runner, clk clock.Clock) (auth.IdentityProvider, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderLocal:
		tokens := sec.NewTokenService(sec.TokenConfig{
			AccessSecret:  cfg.JWTAccessSecret,
			RefreshSecret: cfg.JWTRefreshSecret,
			AccessTTL:     cfg.JWTAccessTTL,
			RefreshTTL:    cfg.JWTRefreshTTL,
			Issuer:        constants.AuthIssuer,
		}, clk)
		return auth.NewLocalProvider(profiles, tokens, mailing, runner, clk), nil

	case config.AuthProviderGoTrue:
		return auth.NewGoTrueProvider(auth.GoTrueConfig{
			URL:         cfg.GoTrueURL,
			APIKey:      cfg.GoTrueAPIKey,
			JWTSecret:   cfg.GoTrueJWTSecret,
			RedirectURL: cfg.PublicAppURL(),
		}, profiles, clk), nil

	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.AuthProvider)
	}
}
