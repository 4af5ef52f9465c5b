// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func TestRootBanner(t *testing.T) {
	t.Parallel()

	h := NewHandler(testConfig(), nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Root(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	var banner map[string]string
	if err := json.Unmarshal(env.Data, &banner); err != nil {
		t.Fatalf("Bad data payload: %v", err)
	}
	if banner["version"] != Version {
		t.Errorf("Expected version %s, got %s", Version, banner["version"])
	}
}

func TestHealthWithoutTasks(t *testing.T) {
	t.Parallel()

	h := NewHandler(testConfig(), nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	var status HealthStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("Bad data payload: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("Expected healthy, got %s", status.Status)
	}
	if status.TasksEnabled {
		t.Error("Tasks must report disabled")
	}
}

func TestHealthDegradedWhenQueueDown(t *testing.T) {
	t.Parallel()

	h, _, queue := newTaskTestHandler(t)
	queue.running = false

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	var status HealthStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("Bad data payload: %v", err)
	}
	if status.Status != "degraded" {
		t.Errorf("Expected degraded, got %s", status.Status)
	}
	if status.QueueRunning {
		t.Error("Queue must report stopped")
	}
}

func TestHealthLiveAlwaysOK(t *testing.T) {
	t.Parallel()

	h, _, queue := newTaskTestHandler(t)
	queue.running = false

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	rec := httptest.NewRecorder()
	h.HealthLive(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Liveness must not depend on the pipeline, got %d", rec.Code)
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	h, _, queue := newTaskTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	rec := httptest.NewRecorder()
	h.HealthReady(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 while pipeline runs, got %d", rec.Code)
	}

	queue.running = false
	rec = httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 with queue down, got %d", rec.Code)
	}
}
