// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockQueue is a test double for QueueRunner.
type mockQueue struct {
	runErr     error
	closeErr   error
	runCount   atomic.Int32
	closeCount atomic.Int32
}

func (m *mockQueue) Run(ctx context.Context) error {
	m.runCount.Add(1)
	if m.runErr != nil {
		return m.runErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockQueue) Close() error {
	m.closeCount.Add(1)
	return m.closeErr
}

func TestQueueService_Interface(t *testing.T) {
	var _ suture.Service = (*QueueService)(nil)
}

func TestQueueService_GracefulShutdown(t *testing.T) {
	queue := &mockQueue{}
	svc := NewQueueService(queue)

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	if queue.closeCount.Load() != 1 {
		t.Errorf("expected 1 Close call, got %d", queue.closeCount.Load())
	}
}

func TestQueueService_CrashPropagates(t *testing.T) {
	queue := &mockQueue{runErr: errors.New("router wedged")}
	svc := NewQueueService(queue)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, queue.runErr) {
		t.Errorf("expected wrapped run error, got %v", err)
	}
	if queue.closeCount.Load() != 0 {
		t.Error("crash must not close the queue, the supervisor restarts it")
	}
}

func TestQueueService_String(t *testing.T) {
	svc := NewQueueService(&mockQueue{})
	if svc.String() != "task-queue" {
		t.Errorf("expected 'task-queue', got %q", svc.String())
	}
}
