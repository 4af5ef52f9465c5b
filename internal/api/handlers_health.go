// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	TasksEnabled  bool    `json:"tasks_enabled"`
	StoreHealthy  bool    `json:"store_healthy"`
	QueueRunning  bool    `json:"queue_running"`
	TaskRecords   int     `json:"task_records"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Root handles GET / with a service banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"service": "ISCC Content Code Generation Service",
		"version": Version,
		"docs":    "/api/v1",
	})
}

// Health handles health check requests.
// Reports degraded when the task pipeline is enabled but its store or
// queue is unavailable; code generation itself has no dependencies.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storeHealthy, queueRunning, pending := h.taskPipelineStatus(r)

	status := "healthy"
	if h.tasksEnabled() && (!storeHealthy || !queueRunning) {
		status = "degraded"
	}

	WriteSuccess(w, r, HealthStatus{
		Status:        status,
		Version:       Version,
		TasksEnabled:  h.tasksEnabled(),
		StoreHealthy:  storeHealthy,
		QueueRunning:  queueRunning,
		TaskRecords:   pending,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only if the service is ready to handle traffic:
// generation endpoints are always ready, the task pipeline (when
// enabled) must have a reachable store and a running queue.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storeHealthy, queueRunning, _ := h.taskPipelineStatus(r)

	ready := true
	if h.tasksEnabled() {
		ready = storeHealthy && queueRunning
	}

	data := map[string]interface{}{
		"ready_to_serve": ready,
		"store_healthy":  storeHealthy,
		"queue_running":  queueRunning,
		"uptime":         time.Since(h.startTime).Seconds(),
	}

	rw := NewResponseWriter(w, r)
	if !ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Task pipeline not ready", data)
		return
	}
	rw.Success(data)
}

// taskPipelineStatus probes the task store and queue.
func (h *Handler) taskPipelineStatus(r *http.Request) (storeHealthy, queueRunning bool, pending int) {
	if !h.tasksEnabled() {
		return false, false, 0
	}

	count, err := h.store.Count(r.Context())
	storeHealthy = err == nil
	if storeHealthy {
		pending = count
	}
	queueRunning = h.queue.IsRunning()
	return storeHealthy, queueRunning, pending
}
