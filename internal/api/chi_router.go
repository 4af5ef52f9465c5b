// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codelabel/isccd/internal/middleware"
)

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for the given handler and middleware factory.
func NewRouter(handler *Handler, cm *ChiMiddleware) *Router {
	if cm == nil {
		cm = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: cm,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Service Banner
	// ========================
	r.With(router.chiMiddleware.RateLimitHealth()).Get("/", router.handler.Root)

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting so monitoring tools can poll freely
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Generation Endpoints
	// ========================
	// Synchronous code generation; API key required when configured
	r.Route("/api/v1/generate", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(router.chiMiddleware.APIKeyAuth())

		r.Post("/meta-id", router.handler.GenerateMetaID)
		r.Post("/content-id-text", router.handler.GenerateContentIDText)
		r.Post("/content-id-image", router.handler.GenerateContentIDImage)
		r.Post("/content-id-audio", router.handler.GenerateContentIDAudio)
		r.Post("/content-id-video", router.handler.GenerateContentIDVideo)
		r.Post("/data-id", router.handler.GenerateDataID)
		r.Post("/instance-id", router.handler.GenerateInstanceID)
		r.Post("/iscc", router.handler.GenerateISCC)
	})

	// ========================
	// Async Task Endpoints
	// ========================
	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(router.chiMiddleware.APIKeyAuth())
		r.Use(chiPathValue) // Bridge Chi URL params to r.PathValue()

		r.Post("/", router.handler.CreateTask)
		r.Get("/{id}", router.handler.GetTask)
		r.Delete("/{id}", router.handler.DeleteTask)
	})

	// ========================
	// Prometheus Metrics
	// ========================
	r.With(router.chiMiddleware.RateLimitHealth()).
		Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// chiPathValue makes Chi URL params available via r.PathValue().
func chiPathValue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		if rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if i < len(rctx.URLParams.Values) {
					r.SetPathValue(key, rctx.URLParams.Values[i])
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
