// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides values shared across layers: server timing,
authentication, response field names and retry bounds.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "shopora-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout bounds the graceful shutdown of the server and of the
	// background tasks it started.
	ShutdownTimeout = 30 * time.Second

	// ReadinessTimeout bounds each dependency ping in /ready.
	ReadinessTimeout = 2 * time.Second
)

// # Background Work

const (
	// BackgroundTaskTimeout bounds a single best-effort task (mail delivery).
	BackgroundTaskTimeout = 30 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "shopora.app"

	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "
)

// # Uniqueness

const (
	// MaxUniqueRetries bounds how often a slug or order-number write is
	// regenerated after losing a race on its unique index.
	MaxUniqueRetries = 5
)

// # Uploads

const (
	// MaxProductImages is the maximum number of images per product.
	MaxProductImages = 5

	// MaxImageSize is the per-file upload limit in bytes.
	MaxImageSize = 5 << 20

	// MaxMultipartMemory is the in-memory budget when parsing product forms.
	MaxMultipartMemory = 32 << 20
)

// # JSON Field Identifiers

const (
	FieldSuccess = "success"
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaUsers   = "users"
	SchemaCatalog = "catalog"
	SchemaSales   = "sales"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json; charset=utf-8"
)
