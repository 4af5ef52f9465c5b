// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package api

import (
	"context"
	"time"

	"github.com/codelabel/isccd/internal/config"
	"github.com/codelabel/isccd/internal/tasks"
)

// Version is the service version reported by health endpoints.
const Version = "1.0.0"

// TaskQueue is the subset of the task pipeline the handlers drive.
// Satisfied by *tasks.Queue; tests substitute stubs.
type TaskQueue interface {
	Submit(ctx context.Context, task *tasks.Task) error
	IsRunning() bool
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_health.go: banner and health/liveness/readiness probes
//   - handlers_generate.go: synchronous ISCC generation endpoints
//   - handlers_tasks.go: async URL task endpoints
type Handler struct {
	config    *config.Config
	store     tasks.Store
	queue     TaskQueue
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// store and queue may be nil when the task pipeline is disabled; the
// task endpoints then answer 503 and readiness ignores the pipeline.
func NewHandler(cfg *config.Config, store tasks.Store, queue TaskQueue) *Handler {
	return &Handler{
		config:    cfg,
		store:     store,
		queue:     queue,
		startTime: time.Now(),
	}
}

// tasksEnabled reports whether the async pipeline is available.
func (h *Handler) tasksEnabled() bool {
	return h.config != nil && h.config.Tasks.Enabled && h.store != nil && h.queue != nil
}
