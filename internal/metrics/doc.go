// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - ISCC code generation rates by component type
  - Upload sizes and rejections
  - Async task pipeline throughput, retries and queue depth
  - Content download performance and circuit breaker state
  - Task store operation latency

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Generation Metrics:
  - iscc_codes_generated_total: Codes generated (counter)
    Labels: component (meta, text, image, audio, video, data, instance, iscc)
  - iscc_generation_duration_seconds: Generation latency (histogram)
    Labels: component
  - iscc_generation_errors_total: Generation errors (counter)
    Labels: component, error_type

Task Pipeline Metrics:
  - tasks_submitted_total: Tasks entering the pipeline (counter)
  - tasks_completed_total: Finished tasks (counter)
    Labels: outcome (success, failed)
  - task_processing_duration_seconds: End-to-end latency (histogram)
  - task_retries_total: Retry attempts (counter)
  - task_queue_depth: Tasks waiting for a worker (gauge)

Download Metrics:
  - download_duration_seconds: Download latency (histogram)
  - download_size_bytes: Downloaded content size (histogram)
  - download_errors_total: Download errors (counter)
    Labels: error_type (timeout, status, too_large, network)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through breaker (counter)
    Labels: name, result
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

# Usage Example

Basic setup in main.go:

	import (
	    "github.com/codelabel/isccd/internal/metrics"
	    "github.com/prometheus/client_golang/prometheus/promhttp"
	)

	func main() {
	    http.Handle("/metrics", promhttp.Handler())

	    metrics.RecordAPIRequest("POST", "/api/v1/generate/meta-id", "200", 23*time.Millisecond)
	    metrics.RecordCodeGenerated("meta", 2*time.Millisecond)
	}

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'isccd'
	    static_configs:
	      - targets: ['localhost:8080']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

Example PromQL queries:

	# API request rate
	rate(api_requests_total[5m])

	# API p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# Task failure ratio
	rate(tasks_completed_total{outcome="failed"}[5m]) / rate(tasks_completed_total[5m])

	# Codes generated per minute by component
	rate(iscc_codes_generated_total[1m]) * 60

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use route patterns, not raw paths
  - Component and error type labels are limited to predefined constants
  - Task IDs and URLs are never used as labels

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/tasks: Task pipeline metrics recording
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
  - https://prometheus.io/docs/practices/instrumentation/: Instrumentation guide
*/
package metrics
