// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

/*
Package supervisor provides process supervision for isccd using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of all long-running components. It provides Erlang/OTP-style
supervision with automatic restart, failure isolation, and graceful
shutdown.

# Overview

The tree organizes services into two layers for failure isolation:

	RootSupervisor ("isccd")
	├── TasksSupervisor ("tasks-layer")
	│   └── QueueService (Watermill router + workers, if tasks enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that a crash in the async task pipeline never
takes down the synchronous generation API, and vice versa. Each layer
restarts independently with its own failure counter.

# Usage Example

Basic setup in main.go:

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddTaskService(services.NewQueueService(queue))

	// Blocks until the context is canceled.
	if err := tree.Serve(ctx); err != nil {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

# Configuration

The TreeConfig controls restart behavior:

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,              // Failures before backoff
	    FailureDecay:     30.0,             // Seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // Backoff duration
	    ShutdownTimeout:  10 * time.Second, // Per-service shutdown timeout
	}

Zero values take suture's production defaults (5 / 30s / 15s / 10s).

# Service Interface

All services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: service stopped cleanly, will not be restarted
  - Return error: service crashed, will be restarted
  - Context canceled: shutdown requested, return promptly

# Debugging Shutdown Issues

If services don't stop within the timeout:

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logging.Warn().Str("service", svc.Name).Msg("Service did not stop")
	}

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4: underlying library
*/
package supervisor
