// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/codelabel/isccd/internal/config"
	"github.com/codelabel/isccd/internal/iscc"
	"github.com/codelabel/isccd/internal/tasks"
)

// stubQueue records submissions instead of running the pipeline.
type stubQueue struct {
	store     tasks.Store
	running   bool
	submitted []string
	err       error
}

func (q *stubQueue) Submit(ctx context.Context, task *tasks.Task) error {
	if q.err != nil {
		return q.err
	}
	if err := q.store.Put(ctx, task); err != nil {
		return err
	}
	q.submitted = append(q.submitted, task.ID)
	return nil
}

func (q *stubQueue) IsRunning() bool { return q.running }

// newTaskTestHandler wires a handler to a real Badger store and a stub
// queue.
func newTaskTestHandler(t *testing.T) (*Handler, tasks.Store, *stubQueue) {
	t.Helper()

	store, err := tasks.OpenBadgerStore(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("OpenBadgerStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	queue := &stubQueue{store: store, running: true}

	cfg := testConfig()
	cfg.Tasks = config.TasksConfig{
		Enabled:          true,
		Workers:          1,
		StorePath:        t.TempDir(),
		DownloadTimeout:  10 * time.Second,
		MaxDownloadBytes: 1 << 20,
		ResultTTL:        time.Hour,
	}

	return NewHandler(cfg, store, queue), store, queue
}

func TestCreateTaskAccepted(t *testing.T) {
	t.Parallel()

	h, _, queue := newTaskTestHandler(t)
	url := "https://example.com/media/sample.txt"

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"url":"`+url+`","title":"Sample"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.CreateTask(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	var resp TaskAcceptedResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("Bad data payload: %v", err)
	}

	wantID := tasks.TaskID(url)
	if resp.TaskID != wantID {
		t.Errorf("Expected task ID %s, got %s", wantID, resp.TaskID)
	}
	if resp.State != string(tasks.StatePending) {
		t.Errorf("Expected pending state, got %s", resp.State)
	}
	if got := rec.Header().Get("Location"); got != "/api/v1/tasks/"+wantID {
		t.Errorf("Wrong Location header: %s", got)
	}
	if len(queue.submitted) != 1 || queue.submitted[0] != wantID {
		t.Errorf("Queue submission missing: %v", queue.submitted)
	}
}

func TestCreateTaskInvalidURL(t *testing.T) {
	t.Parallel()

	h, _, _ := newTaskTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"url":"not a url"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.CreateTask(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestCreateTaskConflictWhileRunning(t *testing.T) {
	t.Parallel()

	h, store, queue := newTaskTestHandler(t)
	url := "https://example.com/media/inflight.txt"

	running := tasks.NewTask(url, "", "")
	running.State = tasks.StateDownloading
	if err := store.Put(context.Background(), running); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"url":"`+url+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.CreateTask(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", rec.Code)
	}
	if len(queue.submitted) != 0 {
		t.Errorf("Conflicting task must not be resubmitted: %v", queue.submitted)
	}
}

func TestCreateTaskResubmitFinished(t *testing.T) {
	t.Parallel()

	h, store, queue := newTaskTestHandler(t)
	url := "https://example.com/media/redo.txt"

	done := tasks.NewTask(url, "", "")
	done.State = tasks.StateProcessing
	now := time.Now()
	done.StartedAt = &now
	done.MarkFailed("download failed")
	if err := store.Put(context.Background(), done); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"url":"`+url+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.CreateTask(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202 for finished task, got %d", rec.Code)
	}
	if len(queue.submitted) != 1 {
		t.Errorf("Expected resubmission, got %v", queue.submitted)
	}
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	h, store, _ := newTaskTestHandler(t)

	task := tasks.NewTask("https://example.com/media/done.txt", "Done", "")
	task.State = tasks.StateProcessing
	now := time.Now()
	task.StartedAt = &now
	task.MarkSuccess(&iscc.Result{ISCC: "a-b-c-d", GMT: "text"})
	if err := store.Put(context.Background(), task); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/"+task.ID, nil)
	req.SetPathValue("id", task.ID)
	rec := httptest.NewRecorder()
	h.GetTask(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	var got tasks.Task
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("Bad data payload: %v", err)
	}
	if got.State != tasks.StateSuccess || got.Result == nil || got.Result.ISCC != "a-b-c-d" {
		t.Errorf("Unexpected task payload: %+v", got)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	t.Parallel()

	h, _, _ := newTaskTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/deadbeef", nil)
	req.SetPathValue("id", "deadbeef")
	rec := httptest.NewRecorder()
	h.GetTask(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	h, store, _ := newTaskTestHandler(t)

	task := tasks.NewTask("https://example.com/media/gone.txt", "", "")
	task.State = tasks.StateDownloading
	now := time.Now()
	task.StartedAt = &now
	task.MarkFailed("origin unreachable")
	if err := store.Put(context.Background(), task); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/"+task.ID, nil)
	req.SetPathValue("id", task.ID)
	rec := httptest.NewRecorder()
	h.DeleteTask(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	if _, err := store.Get(context.Background(), task.ID); err == nil {
		t.Error("Record must be gone after delete")
	}
}

func TestDeleteTaskStillRunning(t *testing.T) {
	t.Parallel()

	h, store, _ := newTaskTestHandler(t)

	task := tasks.NewTask("https://example.com/media/busy.txt", "", "")
	task.State = tasks.StateDownloading
	if err := store.Put(context.Background(), task); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/"+task.ID, nil)
	req.SetPathValue("id", task.ID)
	rec := httptest.NewRecorder()
	h.DeleteTask(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", rec.Code)
	}
}

func TestTaskEndpointsDisabled(t *testing.T) {
	t.Parallel()

	h := NewHandler(testConfig(), nil, nil)

	endpoints := []http.HandlerFunc{h.CreateTask, h.GetTask, h.DeleteTask}
	for _, endpoint := range endpoints {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"url":"https://example.com/x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		endpoint(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503 with pipeline disabled, got %d", rec.Code)
		}
	}
}
