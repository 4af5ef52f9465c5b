// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

/*
Package tasks implements the async URL-to-ISCC pipeline behind
POST /api/v1/tasks.

A submitted URL becomes a Task addressed by the BLAKE3 hash of the URL,
persisted in a Badger store and pushed through a Watermill in-process
pub/sub. Worker handlers download the content, run full ISCC generation
and record the result; every state transition is persisted so clients
polling GET /api/v1/tasks/{id} observe progress:

	pending -> downloading -> processing -> success | failed

# Reliability

The Watermill router applies panic recovery, exponential backoff retry
and poison queue routing. Transient failures (network errors, origin
5xx) are retried up to the configured count; exhausted messages land on
the poison topic where the task is marked failed. Permanent failures
(client-error status, oversized content, unsupported media type) skip
retries entirely.

Downloads run behind a shared circuit breaker and an optional
cross-worker rate limiter. Finished task records carry a TTL so the
store does not grow without bound.

# Usage

	store, err := tasks.OpenBadgerStore(cfg.Tasks.StorePath, cfg.Tasks.ResultTTL)
	proc := tasks.NewProcessor(cfg.Tasks, store, cfg.Upload.TempDir)
	queue, err := tasks.NewQueue(cfg.Tasks, store, proc)
	go queue.Run(ctx)

	task := tasks.NewTask(url, title, extra)
	err = queue.Submit(ctx, task)
*/
package tasks
