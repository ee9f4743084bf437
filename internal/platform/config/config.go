// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

A local .env file is loaded first when present (godotenv), then
'caarlos0/env' maps the process environment into [Config]. Variables that
are already set win over the file.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinSecretLength is the minimum byte length of each JWT secret.
const MinSecretLength = 32

// Auth provider identifiers.
const (
	AuthProviderLocal  = "local"
	AuthProviderGoTrue = "gotrue"
)

// Mail queue backends.
const (
	MailQueueNone     = "none"
	MailQueueRedis    = "redis"
	MailQueueRabbitMQ = "rabbitmq"
	MailQueuePubSub   = "pubsub"
)

// Storage backends.
const (
	StorageMinIO = "minio"
	StorageGCS   = "gcs"
)

// # Configuration Schema

// Config holds all runtime configuration for the Shopora API.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`
	LogFile     string `env:"LOG_FILE"`

	// Relational Database (PostgreSQL)
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	DBMaxConns    int32  `env:"DB_MAX_CONNS"   envDefault:"20"`
	DBMinConns    int32  `env:"DB_MIN_CONNS"   envDefault:"2"`

	// Key-Value Cache (Redis)
	RedisURL      string `env:"REDIS_URL,required,notEmpty"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Session signing
	JWTAccessSecret  string        `env:"JWT_ACCESS_SECRET,required,notEmpty"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET,required,notEmpty"`
	JWTAccessTTL     time.Duration `env:"JWT_ACCESS_TTL"  envDefault:"15m"`
	JWTRefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`

	// Identity provider
	AuthProvider    string `env:"AUTH_PROVIDER" envDefault:"local"`
	GoTrueURL       string `env:"GOTRUE_URL"`
	GoTrueAPIKey    string `env:"GOTRUE_API_KEY"`
	GoTrueJWTSecret string `env:"GOTRUE_JWT_SECRET"`

	// Outgoing mail
	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"no-reply@shopora.app"`
	AppName      string `env:"APP_NAME"  envDefault:"Shopora"`
	AppURL       string `env:"APP_URL"   envDefault:"http://localhost:3000"`

	// Mail queue
	MailQueue             string `env:"MAIL_QUEUE"         envDefault:"none"`
	MailQueueChannel      string `env:"MAIL_QUEUE_CHANNEL" envDefault:"shopora-mail"`
	RabbitMQURL           string `env:"RABBITMQ_URL"`
	PubSubProjectID       string `env:"PUBSUB_PROJECT_ID"`
	PubSubCredentialsFile string `env:"PUBSUB_CREDENTIALS_FILE"`

	// Object storage for product images
	StorageBackend     string `env:"STORAGE_BACKEND" envDefault:"minio"`
	StorageBucket      string `env:"STORAGE_BUCKET"  envDefault:"shopora-products"`
	StoragePublicURL   string `env:"STORAGE_PUBLIC_URL"`
	MinIOEndpoint      string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinIOAccessKey     string `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey     string `env:"MINIO_SECRET_KEY"`
	MinIOUseSSL        bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	GCSProjectID       string `env:"GCS_PROJECT_ID"`
	GCSCredentialsFile string `env:"GCS_CREDENTIALS_FILE"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"shopora.app"`
}

// # Configuration Loading

// Load reads .env (if any) and parses the environment into a validated [Config].
func Load() (*Config, error) {

	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWTAccessSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_ACCESS_SECRET must be at least %d bytes", MinSecretLength))
	}
	if len(c.JWTRefreshSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_REFRESH_SECRET must be at least %d bytes", MinSecretLength))
	}
	if c.JWTAccessSecret != "" && c.JWTAccessSecret == c.JWTRefreshSecret {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ"))
	}

	if c.DBMinConns > c.DBMaxConns {
		errs = append(errs, errors.New("DB_MIN_CONNS must not exceed DB_MAX_CONNS"))
	}

	switch c.AuthProvider {
	case AuthProviderLocal:
	case AuthProviderGoTrue:
		if c.GoTrueURL == "" || c.GoTrueAPIKey == "" || c.GoTrueJWTSecret == "" {
			errs = append(errs, errors.New("GOTRUE_URL, GOTRUE_API_KEY and GOTRUE_JWT_SECRET are required when AUTH_PROVIDER=gotrue"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider))
	}

	switch c.MailQueue {
	case MailQueueNone, MailQueueRedis:
	case MailQueueRabbitMQ:
		if c.RabbitMQURL == "" {
			errs = append(errs, errors.New("RABBITMQ_URL is required when MAIL_QUEUE=rabbitmq"))
		}
	case MailQueuePubSub:
		if c.PubSubProjectID == "" {
			errs = append(errs, errors.New("PUBSUB_PROJECT_ID is required when MAIL_QUEUE=pubsub"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_QUEUE %q", c.MailQueue))
	}

	switch c.StorageBackend {
	case StorageMinIO:
	case StorageGCS:
		if c.GCSProjectID == "" {
			errs = append(errs, errors.New("GCS_PROJECT_ID is required when STORAGE_BACKEND=gcs"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PublicAppURL returns AppURL without a trailing slash.
func (c *Config) PublicAppURL() string {
	return strings.TrimRight(c.AppURL, "/")
}
