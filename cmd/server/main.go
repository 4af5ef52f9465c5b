// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codelabel/isccd/internal/api"
	"github.com/codelabel/isccd/internal/config"
	"github.com/codelabel/isccd/internal/logging"
	"github.com/codelabel/isccd/internal/supervisor"
	"github.com/codelabel/isccd/internal/supervisor/services"
	"github.com/codelabel/isccd/internal/tasks"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting isccd with supervisor tree")
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Bool("tasks_enabled", cfg.Tasks.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.Security.APIKey == "" {
		logging.Warn().Msg("No API key configured - generation endpoints are publicly accessible")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Task pipeline (optional). The handler takes nil store/queue when
	// disabled and answers 503 on the task endpoints.
	var store tasks.Store
	var queue api.TaskQueue
	if cfg.Tasks.Enabled {
		badgerStore, err := tasks.OpenBadgerStore(cfg.Tasks.StorePath, cfg.Tasks.ResultTTL)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Tasks.StorePath).Msg("Failed to open task store")
		}
		defer func() {
			if err := badgerStore.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing task store")
			}
		}()

		proc := tasks.NewProcessor(cfg.Tasks, badgerStore, cfg.Upload.TempDir)
		taskQueue, err := tasks.NewQueue(cfg.Tasks, badgerStore, proc)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create task queue")
		}

		tree.AddTaskService(services.NewQueueService(taskQueue))
		logging.Info().
			Int("workers", cfg.Tasks.EffectiveWorkers()).
			Str("store_path", cfg.Tasks.StorePath).
			Dur("result_ttl", cfg.Tasks.ResultTTL).
			Msg("Task pipeline added to supervisor tree")

		store = badgerStore
		queue = taskQueue
	} else {
		logging.Info().Msg("Task pipeline disabled - synchronous generation only")
	}

	handler := api.NewHandler(cfg, store, queue)

	chiMiddleware := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
		cfg.Security.APIKey,
	)
	router := api.NewRouter(handler, chiMiddleware)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
