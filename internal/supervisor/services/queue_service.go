// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package services

import (
	"context"
	"errors"
	"fmt"
)

// QueueRunner is the lifecycle surface of the task queue.
//
// Satisfied by *tasks.Queue: Run blocks until the context is canceled
// or the Watermill router fails, Close releases the pub/sub.
type QueueRunner interface {
	Run(ctx context.Context) error
	Close() error
}

// QueueService wraps the async task queue as a supervised service.
//
// The Watermill router's Run already follows suture's context-aware
// Serve pattern, so the wrapper only maps its termination semantics:
// a clean context cancellation propagates ctx.Err() for a normal stop,
// anything else is a crash the supervisor should restart.
type QueueService struct {
	queue QueueRunner
	name  string
}

// NewQueueService creates a supervised wrapper around the task queue.
func NewQueueService(queue QueueRunner) *QueueService {
	return &QueueService{
		queue: queue,
		name:  "task-queue",
	}
}

// Serve implements suture.Service.
func (s *QueueService) Serve(ctx context.Context) error {
	err := s.queue.Run(ctx)

	if ctx.Err() != nil {
		// Shutdown requested. Close releases subscriber channels so a
		// restart after shutdown cannot double-subscribe.
		if cerr := s.queue.Close(); cerr != nil && !errors.Is(cerr, context.Canceled) {
			return fmt.Errorf("task queue close failed: %w", cerr)
		}
		return ctx.Err()
	}

	if err != nil {
		return fmt.Errorf("task queue failed: %w", err)
	}
	return nil
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *QueueService) String() string {
	return s.name
}
