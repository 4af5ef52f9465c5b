// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package tasks

import (
	"testing"
	"time"

	"github.com/codelabel/isccd/internal/iscc"
)

func TestTaskIDDeterministic(t *testing.T) {
	t.Parallel()

	a := TaskID("https://example.com/file.txt")
	b := TaskID("https://example.com/file.txt")
	if a != b {
		t.Errorf("Same URL must yield the same task ID: %s vs %s", a, b)
	}

	c := TaskID("https://example.com/other.txt")
	if a == c {
		t.Error("Different URLs must yield different task IDs")
	}

	// BLAKE3-256 hex digest
	if len(a) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(a))
	}
	for _, ch := range a {
		if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f')) {
			t.Errorf("Non-hex character %q in task ID", ch)
		}
	}
}

func TestNewTaskStartsPending(t *testing.T) {
	t.Parallel()

	task := NewTask("https://example.com/a.png", "Title", "")
	if task.State != StatePending {
		t.Errorf("Expected pending state, got %s", task.State)
	}
	if task.ID != TaskID("https://example.com/a.png") {
		t.Error("Task ID must derive from the URL")
	}
	if task.Finished() {
		t.Error("Pending task must not report finished")
	}
	if task.CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}
}

func TestMarkSuccessAndFailed(t *testing.T) {
	t.Parallel()

	task := NewTask("https://example.com/a.txt", "", "")
	started := time.Now().UTC().Add(-2 * time.Second)
	task.StartedAt = &started

	task.MarkSuccess(&iscc.Result{ISCC: "ISCC:x"})
	if task.State != StateSuccess || !task.Finished() {
		t.Errorf("Expected success terminal state, got %s", task.State)
	}
	if task.Result == nil || task.FinishedAt == nil {
		t.Fatal("Success must carry result and finish time")
	}
	if task.DurationMs < 1900 {
		t.Errorf("Expected duration around 2s, got %dms", task.DurationMs)
	}

	failed := NewTask("https://example.com/b.txt", "", "")
	failed.MarkFailed("download failed: boom")
	if failed.State != StateFailed || !failed.Finished() {
		t.Errorf("Expected failed terminal state, got %s", failed.State)
	}
	if failed.Error == "" {
		t.Error("Failed task must carry the error message")
	}
}
