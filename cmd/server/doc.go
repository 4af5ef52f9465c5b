// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

// Package main is the entry point for the isccd server.
//
// isccd generates International Standard Content Codes (ISCC) for
// media content. It exposes a JSON HTTP API with synchronous component
// generation endpoints (Meta-ID, Content-ID, Data-ID, Instance-ID and
// the full composite ISCC) plus an optional async pipeline that
// downloads content from URLs and processes it in the background.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: settings from environment variables and config file (Koanf v2)
//  2. Logging: zerolog with configurable level and format
//  3. Task pipeline (optional): Badger store, download processor, Watermill queue
//  4. HTTP server: Chi-routed REST API with Prometheus metrics
//  5. Supervisor tree: suture v4 supervision of the queue and HTTP server
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (flat names, e.g. HTTP_PORT, WORKER_COUNT)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Drains the task queue router and closes the Badger store
//
// # Example Usage
//
// Synchronous generation only:
//
//	export HTTP_PORT=8780
//	./isccd
//
// With the async URL pipeline:
//
//	export TASKS_ENABLED=true
//	export TASK_STORE_PATH=/data/tasks
//	./isccd
package main
