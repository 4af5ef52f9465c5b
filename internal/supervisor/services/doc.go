// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

/*
Package services provides suture.Service wrappers for isccd components.

This package adapts application components to the suture v4 supervision
model, translating their lifecycle patterns (ListenAndServe, Run/Close)
into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation to the Serve pattern
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Task Queue (QueueService):
  - Wraps the Watermill-backed task queue
  - Run already blocks on the context; the wrapper maps termination
    semantics and closes the pub/sub on shutdown

# Usage Example

	server := &http.Server{Addr: ":8780", Handler: router}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddTaskService(services.NewQueueService(queue))

# Error Handling

Return values determine supervisor behavior:

	nil         -> service stopped cleanly, will not restart
	error       -> service crashed, supervisor will restart
	ctx.Err()   -> shutdown requested, normal termination
*/
package services
