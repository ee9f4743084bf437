// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered with the default registry at package init
// through promauto, so importing the package is enough to expose them.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopora"

// # HTTP

// HTTPRequestsTotal counts finished requests.
// Labels:
//   - method: HTTP method
//   - route: chi route pattern (e.g. "/api/v1/products/{slug}")
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// # Auth

// AuthEventsTotal counts authentication outcomes.
// Labels:
//   - event: "sign_up", "sign_in", "refresh", "password_reset", "email_verified", ...
//   - result: "success" or "failure"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events, by event and result.",
	},
	[]string{"event", "result"},
)

// # Mail

// MailSentTotal counts mail delivery attempts.
// Labels:
//   - kind: "verification", "password_reset" or "welcome"
//   - result: "sent", "queued" or "failed"
var MailSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_sent_total",
		Help:      "Total number of mail delivery attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// BackgroundTasksInFlight tracks best-effort tasks that have not finished.
var BackgroundTasksInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "background_tasks_in_flight",
		Help:      "Number of background tasks currently running.",
	},
)

// # Catalog & Sales

// CatalogWritesTotal counts admin mutations.
// Labels:
//   - entity: "category" or "product"
//   - action: "create", "update", "delete", "stock", "featured"
var CatalogWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_writes_total",
		Help:      "Total number of catalog mutations, by entity and action.",
	},
	[]string{"entity", "action"},
)

// UniqueRetriesTotal counts regenerations after a unique-index collision.
// Label:
//   - generator: "slug" or "order_number"
var UniqueRetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unique_retries_total",
		Help:      "Total number of identifier regenerations after a unique violation.",
	},
	[]string{"generator"},
)

// OrdersCreatedTotal counts placed orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders placed.",
	},
)

// # Connection pools

// PoolGauge exports a connection-pool reading as
// shopora_connection_pool_conns{pool, state}. Registering the same pool and
// state twice keeps the first reader.
func PoolGauge(pool, state string, read func() float64) {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "connection_pool_conns",
			Help:        "Connections in a client pool, by pool and state.",
			ConstLabels: prometheus.Labels{"pool": pool, "state": state},
		},
		read,
	)

	var already prometheus.AlreadyRegisteredError
	if err := prometheus.Register(gauge); err != nil && !errors.As(err, &already) {
		panic(err)
	}
}

// # Exposition

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Result maps an error to the "success"/"failure" label value.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
