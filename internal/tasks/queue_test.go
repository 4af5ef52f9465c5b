// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// Supervised restarts invoke Run again on the same Queue after a
// previous run ended. The queue must come back up consuming and
// process newly submitted tasks.
func TestQueueRunRestart(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("restart pipeline test content, plain text."))
	}))
	defer srv.Close()

	cfg := testTasksConfig(t)
	store := newTestStore(t)
	proc := NewProcessor(cfg, store, t.TempDir())

	queue, err := NewQueue(cfg, store, proc)
	if err != nil {
		t.Fatalf("NewQueue failed: %v", err)
	}

	// First run, stopped by context cancel.
	ctx1, cancel1 := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- queue.Run(ctx1) }()
	<-queue.Running()

	cancel1()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("First run did not stop after cancel")
	}

	// Second run must start a fresh consumer.
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	go func() {
		if err := queue.Run(ctx2); err != nil {
			t.Logf("Queue stopped: %v", err)
		}
	}()
	<-queue.Running()
	defer queue.Close()

	task := NewTask(srv.URL+"/restart.txt", "Restart", "")
	if err := queue.Submit(ctx2, task); err != nil {
		t.Fatalf("Submit after restart failed: %v", err)
	}

	deadline := time.After(15 * time.Second)
	for {
		select {
		case <-deadline:
			got, _ := store.Get(context.Background(), task.ID)
			t.Fatalf("Task never finished after restart, last state: %+v", got)
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
			return
		}
	}
}
