// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codelabel/isccd/internal/config"
)

func testTasksConfig(t *testing.T) config.TasksConfig {
	t.Helper()
	return config.TasksConfig{
		Enabled:          true,
		Workers:          1,
		StorePath:        t.TempDir(),
		DownloadTimeout:  10 * time.Second,
		MaxDownloadBytes: 1 << 20,
		ResultTTL:        time.Hour,
		RetryCount:       0,
		RetryInterval:    10 * time.Millisecond,
	}
}

func TestProcessorSuccessText(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	store := newTestStore(t)
	proc := NewProcessor(testTasksConfig(t), store, t.TempDir())
	ctx := context.Background()

	task := NewTask(srv.URL+"/doc.txt", "Quick Fox", "")
	if err := store.Put(ctx, task); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := proc.Process(ctx, task.ID); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	got, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.State != StateSuccess {
		t.Fatalf("Expected success, got %s (error: %s)", got.State, got.Error)
	}
	if got.Result == nil {
		t.Fatal("Success must carry a result")
	}
	if got.Result.GMT != "text" {
		t.Errorf("Expected text GMT, got %s", got.Result.GMT)
	}
	if len(strings.Split(got.Result.ISCC, "-")) != 4 {
		t.Errorf("Malformed composite code: %s", got.Result.ISCC)
	}
	if got.Result.Bytes != int64(len(body)) {
		t.Errorf("Expected %d bytes, got %d", len(body), got.Result.Bytes)
	}
	if got.FinishedAt == nil || got.Attempts != 1 {
		t.Errorf("Bookkeeping wrong: finished=%v attempts=%d", got.FinishedAt, got.Attempts)
	}
}

func TestProcessorClientErrorIsPermanent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	store := newTestStore(t)
	proc := NewProcessor(testTasksConfig(t), store, t.TempDir())
	ctx := context.Background()

	task := NewTask(srv.URL+"/missing", "", "")
	if err := store.Put(ctx, task); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Permanent failures are recorded on the task and must not bubble
	// up, otherwise the retry middleware would redeliver them.
	if err := proc.Process(ctx, task.ID); err != nil {
		t.Fatalf("Permanent failure must ack the message, got %v", err)
	}

	got, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.State != StateFailed {
		t.Fatalf("Expected failed, got %s", got.State)
	}
	if !strings.Contains(got.Error, "download failed") {
		t.Errorf("Expected download failure message, got %q", got.Error)
	}
}

func TestProcessorSizeCap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer srv.Close()

	cfg := testTasksConfig(t)
	cfg.MaxDownloadBytes = 1024

	store := newTestStore(t)
	proc := NewProcessor(cfg, store, t.TempDir())
	ctx := context.Background()

	task := NewTask(srv.URL+"/big", "", "")
	if err := store.Put(ctx, task); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := proc.Process(ctx, task.ID); err != nil {
		t.Fatalf("Oversized download must be a permanent failure, got %v", err)
	}

	got, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.State != StateFailed {
		t.Fatalf("Expected failed, got %s", got.State)
	}
	if !strings.Contains(got.Error, "byte limit") {
		t.Errorf("Expected size cap message, got %q", got.Error)
	}
}

func TestProcessorSkipsFinishedTask(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	proc := NewProcessor(testTasksConfig(t), store, t.TempDir())
	ctx := context.Background()

	task := NewTask("https://example.com/done", "", "")
	task.MarkFailed("already failed")
	if err := store.Put(ctx, task); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := proc.Process(ctx, task.ID); err != nil {
		t.Fatalf("Duplicate delivery must be a no-op, got %v", err)
	}

	got, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.State != StateFailed || got.Attempts != 0 {
		t.Errorf("Finished task must not be reprocessed: %+v", got)
	}
}

func TestProcessorMissingTaskIsNoop(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	proc := NewProcessor(testTasksConfig(t), store, t.TempDir())

	if err := proc.Process(context.Background(), "deadbeef"); err != nil {
		t.Errorf("Deleted record must ack the message, got %v", err)
	}
}

func TestQueueEndToEnd(t *testing.T) {
	t.Parallel()

	body := "isccd end to end pipeline test content, plain text."
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	cfg := testTasksConfig(t)
	store := newTestStore(t)
	proc := NewProcessor(cfg, store, t.TempDir())

	queue, err := NewQueue(cfg, store, proc)
	if err != nil {
		t.Fatalf("NewQueue failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := queue.Run(ctx); err != nil {
			t.Logf("Queue stopped: %v", err)
		}
	}()
	<-queue.Running()
	defer queue.Close()

	task := NewTask(srv.URL+"/e2e.txt", "Pipeline", "")
	if err := queue.Submit(ctx, task); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	deadline := time.After(15 * time.Second)
	for {
		select {
		case <-deadline:
			got, _ := store.Get(context.Background(), task.ID)
			t.Fatalf("Task never finished, last state: %+v", got)
		case <-time.After(50 * time.Millisecond):
		}

		got, err := store.Get(context.Background(), task.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Finished() {
			if got.State != StateSuccess {
				t.Fatalf("Expected success, got %s (%s)", got.State, got.Error)
			}
			if got.Result == nil || got.Result.GMT != "text" {
				t.Fatalf("Unexpected result: %+v", got.Result)
			}
			return
		}
	}
}
