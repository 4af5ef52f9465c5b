// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package api

import (
	"errors"
	"net/http"

	"github.com/codelabel/isccd/internal/tasks"
)

// TaskAcceptedResponse is the payload of POST /api/v1/tasks.
type TaskAcceptedResponse struct {
	TaskID string `json:"task_id"`
	State  string `json:"state"`
}

// CreateTask handles POST /api/v1/tasks: accepts a URL for async
// download and full ISCC generation. Returns 202 with the task ID.
// Resubmitting a URL whose task is still running returns the existing
// task; a finished task is replaced and reprocessed.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.tasksEnabled() {
		rw.ServiceUnavailable("Task pipeline is disabled")
		return
	}

	var req TaskCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task := tasks.NewTask(req.URL, req.Title, req.Extra)

	existing, err := h.store.Get(r.Context(), task.ID)
	if err != nil && !errors.Is(err, tasks.ErrTaskNotFound) {
		rw.StoreError(err)
		return
	}
	if existing != nil && !existing.Finished() {
		rw.ErrorWithDetails(http.StatusConflict, ErrCodeConflict,
			"Task for this URL is already in progress",
			TaskAcceptedResponse{TaskID: existing.ID, State: string(existing.State)})
		return
	}

	if err := h.queue.Submit(r.Context(), task); err != nil {
		rw.StoreError(err)
		return
	}

	w.Header().Set("Location", "/api/v1/tasks/"+task.ID)
	rw.Accepted(TaskAcceptedResponse{TaskID: task.ID, State: string(task.State)})
}

// GetTask handles GET /api/v1/tasks/{id}: returns the full task record
// including the ISCC result once the state is success.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.tasksEnabled() {
		rw.ServiceUnavailable("Task pipeline is disabled")
		return
	}

	id := r.PathValue("id")
	task, err := h.store.Get(r.Context(), id)
	if errors.Is(err, tasks.ErrTaskNotFound) {
		rw.NotFound("No task with this ID")
		return
	}
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(task)
}

// DeleteTask handles DELETE /api/v1/tasks/{id}: removes a finished
// task record. Running tasks cannot be deleted.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.tasksEnabled() {
		rw.ServiceUnavailable("Task pipeline is disabled")
		return
	}

	id := r.PathValue("id")
	task, err := h.store.Get(r.Context(), id)
	if errors.Is(err, tasks.ErrTaskNotFound) {
		rw.NotFound("No task with this ID")
		return
	}
	if err != nil {
		rw.StoreError(err)
		return
	}
	if !task.Finished() {
		rw.Conflict("Task is still running")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		rw.StoreError(err)
		return
	}
	rw.NoContent()
}
