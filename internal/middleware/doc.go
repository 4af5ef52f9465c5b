// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for response compression
and Prometheus metrics instrumentation. Both operate on http.HandlerFunc
and are bridged into the Chi route groups by the api package.

Key Components:

  - Compression: gzip compression for JSON responses
  - Prometheus Metrics: HTTP request/response instrumentation

Usage Example - Compression:

	import "github.com/codelabel/isccd/internal/middleware"

	// Wrap handler with gzip compression
	http.HandleFunc("/api/v1/data",
	    middleware.Compression(handler),
	)

	// Accept-Encoding: gzip header is required

Usage Example - Prometheus Metrics:

	http.HandleFunc("/api/v1/generate/meta-id",
	    middleware.PrometheusMetrics(handler),
	)

	// Records request count, duration histogram and in-flight gauge
	// under the metrics package's api_* series.

Performance Characteristics:

  - Compression: 70-90% size reduction for JSON payloads
  - Compression overhead: ~1-2ms for typical responses
  - Metrics overhead: <0.1ms per request

Thread Safety:

All middleware components are thread-safe:
  - Compression uses pooled per-request gzip writers
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: Chi router and the middleware bridge
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
