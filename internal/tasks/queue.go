// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package tasks

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/codelabel/isccd/internal/config"
	"github.com/codelabel/isccd/internal/logging"
	"github.com/codelabel/isccd/internal/metrics"
)

const (
	// taskTopicPrefix is the base topic name. Each worker consumes its
	// own partition topic (tasks.submitted.0, .1, ...) because GoChannel
	// broadcasts a topic's messages to every subscriber; partitioning by
	// task ID gives worker-pool semantics and keeps retries for one URL
	// on one worker.
	taskTopicPrefix = "tasks.submitted"

	// poisonTopic receives messages that exhausted all retries.
	poisonTopic = "tasks.poison"
)

// Queue drives the async task pipeline: an in-process Watermill pub/sub
// with a router applying panic recovery, exponential backoff retry and
// poison queue routing around the Processor.
type Queue struct {
	cfg     config.TasksConfig
	store   Store
	proc    *Processor
	pubsub  *gochannel.GoChannel
	wmlog   watermill.LoggerAdapter
	workers int

	mu     sync.Mutex
	router *message.Router
	ran    bool
}

// NewQueue wires the pub/sub, router middleware and worker handlers.
// Call Run to start processing.
func NewQueue(cfg config.TasksConfig, store Store, proc *Processor) (*Queue, error) {
	logger := watermill.NewSlogLogger(logging.NewSlogLogger())

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, logger)

	q := &Queue{
		cfg:     cfg,
		store:   store,
		proc:    proc,
		pubsub:  pubsub,
		wmlog:   logger,
		workers: cfg.EffectiveWorkers(),
	}

	router, err := q.newRouter()
	if err != nil {
		return nil, err
	}
	q.router = router

	return q, nil
}

// newRouter builds a fresh router bound to the shared pub/sub. A
// Watermill router can only be run once; Run builds a replacement when
// the supervisor restarts the queue after a crash.
func (q *Queue) newRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: 30 * time.Second,
	}, q.wmlog)
	if err != nil {
		return nil, fmt.Errorf("create task router: %w", err)
	}

	// Middleware order (outer to inner): recover panics, retry with
	// backoff, route exhausted messages to the poison topic.
	router.AddMiddleware(middleware.Recoverer)

	retry := middleware.Retry{
		MaxRetries:      q.cfg.RetryCount,
		InitialInterval: q.cfg.RetryInterval,
		MaxInterval:     time.Minute,
		Multiplier:      2.0,
		Logger:          q.wmlog,
	}
	router.AddMiddleware(retry.Middleware)

	poison, err := middleware.PoisonQueue(q.pubsub, poisonTopic)
	if err != nil {
		return nil, fmt.Errorf("create poison queue middleware: %w", err)
	}
	router.AddMiddleware(poison)

	for i := 0; i < q.workers; i++ {
		router.AddConsumerHandler(
			fmt.Sprintf("task-worker-%d", i),
			partitionTopic(i),
			q.pubsub,
			q.handle,
		)
	}

	router.AddConsumerHandler(
		"task-poison",
		poisonTopic,
		q.pubsub,
		q.handlePoisoned,
	)

	return router, nil
}

// Submit persists the pending task and enqueues it for processing.
func (q *Queue) Submit(ctx context.Context, task *Task) error {
	if err := q.store.Put(ctx, task); err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), []byte(task.ID))
	if err := q.pubsub.Publish(q.topicFor(task.ID), msg); err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	metrics.RecordTaskSubmitted()
	logging.NewTaskLogger().TaskAccepted(task.ID, task.URL)
	return nil
}

// handle processes one queued task message.
func (q *Queue) handle(msg *message.Message) error {
	return q.proc.Process(msg.Context(), string(msg.Payload))
}

// handlePoisoned marks tasks failed after all retries were exhausted.
func (q *Queue) handlePoisoned(msg *message.Message) error {
	ctx := msg.Context()
	id := string(msg.Payload)
	reason := msg.Metadata.Get(middleware.ReasonForPoisonedKey)
	if reason == "" {
		reason = "retries exhausted"
	}

	task, err := q.store.Get(ctx, id)
	if err != nil {
		// Record already gone, nothing to mark.
		return nil
	}
	if task.Finished() {
		return nil
	}

	task.MarkFailed(reason)
	if err := q.store.Put(ctx, task); err != nil {
		return err
	}
	metrics.RecordTaskFinished(false, time.Duration(task.DurationMs)*time.Millisecond)
	logging.NewTaskLogger().TaskFailed(task.ID, fmt.Errorf("%s", reason), task.Attempts)
	return nil
}

// topicFor maps a task ID onto its worker partition topic.
func (q *Queue) topicFor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return partitionTopic(int(h.Sum32()) % q.workers)
}

func partitionTopic(i int) string {
	if i < 0 {
		i = -i
	}
	return fmt.Sprintf("%s.%d", taskTopicPrefix, i)
}

// Run starts the router and blocks until the context is canceled. It
// may be called again after a previous run ended; each call consumes a
// fresh router over the same pub/sub and store.
func (q *Queue) Run(ctx context.Context) error {
	q.mu.Lock()
	if q.ran {
		router, err := q.newRouter()
		if err != nil {
			q.mu.Unlock()
			return err
		}
		q.router = router
	}
	q.ran = true
	router := q.router
	q.mu.Unlock()

	return router.Run(ctx)
}

// Running returns a channel that closes once the router is consuming.
func (q *Queue) Running() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.router.Running()
}

// IsRunning reports whether the router is consuming messages.
func (q *Queue) IsRunning() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.router.IsRunning()
}

// Close stops the router and pub/sub, waiting for in-flight handlers.
func (q *Queue) Close() error {
	q.mu.Lock()
	router := q.router
	q.mu.Unlock()

	if err := router.Close(); err != nil {
		return err
	}
	return q.pubsub.Close()
}
