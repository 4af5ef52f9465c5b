// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package logging

import (
	"time"

	"github.com/rs/zerolog"
)

// TaskLogger provides specialized logging for the async task pipeline.
// URL fields are sanitized on every call so pre-signed or credentialed
// download URLs never reach log storage.
type TaskLogger struct {
	logger zerolog.Logger
}

// NewTaskLogger creates a logger configured for task processing.
func NewTaskLogger() *TaskLogger {
	return &TaskLogger{
		logger: With().Str("component", "tasks").Logger(),
	}
}

// NewTaskLoggerWithLogger creates a TaskLogger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTaskLoggerWithLogger(logger zerolog.Logger) *TaskLogger {
	return &TaskLogger{
		logger: logger.With().Str("component", "tasks").Logger(),
	}
}

// TaskAccepted logs a newly enqueued task.
func (l *TaskLogger) TaskAccepted(taskID, rawURL string) {
	l.logger.Info().
		Str("task_id", taskID).
		Str("url", SanitizeURL(rawURL)).
		Msg("Task accepted")
}

// TaskStateChanged logs a task state transition.
func (l *TaskLogger) TaskStateChanged(taskID, from, to string) {
	l.logger.Debug().
		Str("task_id", taskID).
		Str("from", from).
		Str("to", to).
		Msg("Task state changed")
}

// TaskCompleted logs a successfully processed task.
func (l *TaskLogger) TaskCompleted(taskID, iscc string, elapsed time.Duration) {
	l.logger.Info().
		Str("task_id", taskID).
		Str("iscc", iscc).
		Dur("elapsed", elapsed).
		Msg("Task completed")
}

// TaskFailed logs a permanently failed task.
func (l *TaskLogger) TaskFailed(taskID string, err error, attempts int) {
	l.logger.Error().
		Str("task_id", taskID).
		Err(err).
		Int("attempts", attempts).
		Msg("Task failed")
}

// DownloadStarted logs the beginning of a content download.
func (l *TaskLogger) DownloadStarted(taskID, rawURL string) {
	l.logger.Debug().
		Str("task_id", taskID).
		Str("url", SanitizeURL(rawURL)).
		Msg("Download started")
}

// DownloadFinished logs a completed content download.
func (l *TaskLogger) DownloadFinished(taskID string, bytes int64, elapsed time.Duration) {
	l.logger.Debug().
		Str("task_id", taskID).
		Int64("bytes", bytes).
		Dur("elapsed", elapsed).
		Msg("Download finished")
}
