// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost presentation layer.
  - It is the composition root of the chi router.
  - Only this package and cmd/api construct net/http servers.
*/
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/taibuivan/shopora/internal/catalog/category"
	"github.com/taibuivan/shopora/internal/catalog/product"
	"github.com/taibuivan/shopora/internal/catalog/review"
	"github.com/taibuivan/shopora/internal/platform/config"
	"github.com/taibuivan/shopora/internal/platform/constants"
	"github.com/taibuivan/shopora/internal/platform/metrics"
	"github.com/taibuivan/shopora/internal/platform/middleware"
	"github.com/taibuivan/shopora/internal/sales/order"
	"github.com/taibuivan/shopora/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *zap.Logger
}

// # Handler Registry

// Handlers groups all domain HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	Auth     *auth.Handler
	Category *category.Handler
	Product  *product.Handler
	Review   *review.Handler
	Order    *order.Handler
}

// Gate holds what the authorization middleware needs.
type Gate struct {
	Verifier middleware.TokenVerifier
	Resolver middleware.IdentityResolver
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, logger *zap.Logger, gate Gate, h Handlers) *Server {
	router := chi.NewRouter()
	authenticate := middleware.Authenticate(gate.Verifier, gate.Resolver)

	// # Middleware Chain
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.Metrics())
	router.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.PanicRecovery())
	router.Use(middleware.CORS(cfg, cfg.AllowedOriginSuffix))
	router.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	router.Get("/health", h.Liveness)
	router.Get("/ready", h.Readiness)
	router.Handle("/metrics", metrics.Handler())

	// # Application API
	router.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes(authenticate))

		api.Route("/categories", h.Category.RegisterPublicRoutes)

		api.Route("/products", func(products chi.Router) {
			h.Product.RegisterPublicRoutes(products)
			products.Group(func(signedIn chi.Router) {
				signedIn.Use(authenticate, middleware.RequireUser())
				h.Review.RegisterRoutes(signedIn)
			})
		})

		api.Route("/orders", func(orders chi.Router) {
			orders.Use(authenticate, middleware.RequireUser())
			h.Order.RegisterRoutes(orders)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(authenticate, middleware.RequireAdmin())
			admin.Route("/categories", h.Category.RegisterAdminRoutes)
			admin.Route("/products", h.Product.RegisterAdminRoutes)
			admin.Route("/orders", h.Order.RegisterAdminRoutes)
		})
	})

	return &Server{
		router: router,
		logger: logger,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server. It blocks until the server is
// closed or fails.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server_starting", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
