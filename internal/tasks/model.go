// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package tasks

import (
	"encoding/hex"
	"time"

	"lukechampine.com/blake3"

	"github.com/codelabel/isccd/internal/iscc"
)

// State is the lifecycle stage of an async task.
type State string

// Task lifecycle states. Transitions are strictly forward:
// pending -> downloading -> processing -> success | failed.
const (
	StatePending     State = "pending"
	StateDownloading State = "downloading"
	StateProcessing  State = "processing"
	StateSuccess     State = "success"
	StateFailed      State = "failed"
)

// Task is a single async URL-to-ISCC job. The record is persisted on
// every state transition so clients polling GET /tasks/{id} always see
// the current stage.
type Task struct {
	ID         string       `json:"id"`
	URL        string       `json:"url"`
	Title      string       `json:"title,omitempty"`
	Extra      string       `json:"extra,omitempty"`
	State      State        `json:"state"`
	Error      string       `json:"error,omitempty"`
	Result     *iscc.Result `json:"result,omitempty"`
	Attempts   int          `json:"attempts"`
	CreatedAt  time.Time    `json:"created_at"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
	DurationMs int64        `json:"duration_ms,omitempty"`
}

// NewTask creates a pending task for the given URL. The task ID is
// derived from the URL, so resubmitting the same URL addresses the
// same record.
func NewTask(url, title, extra string) *Task {
	return &Task{
		ID:        TaskID(url),
		URL:       url,
		Title:     title,
		Extra:     extra,
		State:     StatePending,
		CreatedAt: time.Now().UTC(),
	}
}

// TaskID derives the deterministic task identifier for a URL:
// the hex BLAKE3 digest of the URL bytes.
func TaskID(url string) string {
	sum := blake3.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Finished reports whether the task reached a terminal state.
func (t *Task) Finished() bool {
	return t.State == StateSuccess || t.State == StateFailed
}

// MarkFailed transitions the task to the failed terminal state.
func (t *Task) MarkFailed(msg string) {
	now := time.Now().UTC()
	t.State = StateFailed
	t.Error = msg
	t.FinishedAt = &now
	if t.StartedAt != nil {
		t.DurationMs = now.Sub(*t.StartedAt).Milliseconds()
	}
}

// MarkSuccess transitions the task to the success terminal state with
// the generated ISCC result attached.
func (t *Task) MarkSuccess(result *iscc.Result) {
	now := time.Now().UTC()
	t.State = StateSuccess
	t.Error = ""
	t.Result = result
	t.FinishedAt = &now
	if t.StartedAt != nil {
		t.DurationMs = now.Sub(*t.StartedAt).Milliseconds()
	}
}
