// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - API endpoint latency and throughput
// - ISCC code generation by component type
// - Upload sizes
// - Async task pipeline throughput and state
// - Content downloads and circuit breaker health

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// ISCC Generation Metrics
	CodesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iscc_codes_generated_total",
			Help: "Total number of ISCC codes generated by component type",
		},
		[]string{"component"}, // "meta", "text", "image", "audio", "video", "data", "instance", "iscc"
	)

	CodeGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iscc_generation_duration_seconds",
			Help:    "Duration of ISCC code generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"component"},
	)

	CodeGenerationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iscc_generation_errors_total",
			Help: "Total number of ISCC generation errors",
		},
		[]string{"component", "error_type"}, // error_type: "decode", "media_type", "read", "other"
	)

	// Upload Metrics
	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upload_size_bytes",
			Help:    "Size of uploaded files in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KiB .. 256MiB
		},
	)

	UploadRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_rejections_total",
			Help: "Total number of rejected uploads",
		},
		[]string{"reason"}, // "too_large", "missing_file", "malformed"
	)

	// Task Pipeline Metrics
	TasksSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_submitted_total",
			Help: "Total number of tasks submitted to the pipeline",
		},
	)

	TasksCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_completed_total",
			Help: "Total number of finished tasks by outcome",
		},
		[]string{"outcome"}, // "success", "failed"
	)

	TaskProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "task_processing_duration_seconds",
			Help:    "End-to-end task processing duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	TaskRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "task_retries_total",
			Help: "Total number of task retry attempts",
		},
	)

	TaskQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "task_queue_depth",
			Help: "Current number of tasks waiting for a worker",
		},
	)

	// Download Metrics
	DownloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "download_duration_seconds",
			Help:    "Duration of content downloads in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	DownloadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "download_size_bytes",
			Help:    "Size of downloaded content in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	DownloadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "download_errors_total",
			Help: "Total number of download errors",
		},
		[]string{"error_type"}, // "timeout", "status", "too_large", "network"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Task Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "task_store_operation_duration_seconds",
			Help:    "Duration of task store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "put", "get", "delete", "list"
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_store_operation_errors_total",
			Help: "Total number of task store operation errors",
		},
		[]string{"operation"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCodeGenerated records a successful ISCC code generation.
func RecordCodeGenerated(component string, duration time.Duration) {
	CodesGenerated.WithLabelValues(component).Inc()
	CodeGenerationDuration.WithLabelValues(component).Observe(duration.Seconds())
}

// RecordCodeError records a failed ISCC code generation.
func RecordCodeError(component, errorType string) {
	CodeGenerationErrors.WithLabelValues(component, errorType).Inc()
}

// RecordUpload records an accepted upload.
func RecordUpload(bytes int64) {
	UploadBytes.Observe(float64(bytes))
}

// RecordUploadRejection records a rejected upload.
func RecordUploadRejection(reason string) {
	UploadRejections.WithLabelValues(reason).Inc()
}

// RecordTaskSubmitted records a task entering the pipeline.
func RecordTaskSubmitted() {
	TasksSubmitted.Inc()
	TaskQueueDepth.Inc()
}

// RecordTaskFinished records a task leaving the pipeline.
func RecordTaskFinished(success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failed"
	}
	TasksCompleted.WithLabelValues(outcome).Inc()
	TaskProcessingDuration.Observe(duration.Seconds())
	TaskQueueDepth.Dec()
}

// RecordTaskRetry records a retry attempt.
func RecordTaskRetry() {
	TaskRetries.Inc()
}

// RecordDownload records a completed content download.
func RecordDownload(bytes int64, duration time.Duration) {
	DownloadBytes.Observe(float64(bytes))
	DownloadDuration.Observe(duration.Seconds())
}

// RecordDownloadError records a failed content download.
func RecordDownloadError(errorType string) {
	DownloadErrors.WithLabelValues(errorType).Inc()
}

// RecordBreakerResult records a request outcome through a circuit breaker.
func RecordBreakerResult(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordBreakerTransition records a circuit breaker state change and
// updates the state gauge.
func RecordBreakerTransition(name, from, to string, stateValue float64) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(stateValue)
}

// RecordStoreOperation records a task store operation.
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation).Inc()
	}
}
