// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

// Package config provides layered configuration loading for isccd.
//
// Configuration is assembled with Koanf v2 from three sources, each
// overriding the previous one:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML config file (config.yaml, /etc/isccd/config.yaml,
//     or the path in CONFIG_PATH)
//  3. Flat environment variables, mapped onto the nested structure
//     via envTransformFunc
//
// # Environment Variables
//
// Server:
//
//	HTTP_PORT     - Listen port (default: 8080)
//	HTTP_HOST     - Bind address (default: 0.0.0.0)
//	HTTP_TIMEOUT  - Request timeout (default: 30s)
//	ENVIRONMENT   - development, production or test
//
// Security:
//
//	CORS_ORIGINS         - Comma-separated allowed origins (default: *)
//	RATE_LIMIT_REQUESTS  - Requests per window per IP (default: 100)
//	RATE_LIMIT_WINDOW    - Window duration (default: 1m)
//	DISABLE_RATE_LIMIT   - Turn off rate limiting
//	API_KEY              - Optional X-API-Key requirement
//
// Uploads:
//
//	UPLOAD_MAX_BYTES  - Maximum upload size (default: 512 MiB)
//	UPLOAD_TEMP_DIR   - Spill directory (default: os.TempDir)
//
// Task pipeline:
//
//	TASKS_ENABLED            - Enable async URL processing (default: true)
//	WORKER_COUNT             - Concurrent workers, 0 = NumCPU
//	TASK_STORE_PATH          - Badger directory for task records
//	TASK_DOWNLOAD_TIMEOUT    - Per-download timeout (default: 2m)
//	TASK_MAX_DOWNLOAD_BYTES  - Remote content size cap (default: 512 MiB)
//	TASK_DOWNLOADS_PER_SEC   - Outbound download throttle, 0 = unlimited
//	TASK_RESULT_TTL          - Finished record retention (default: 24h)
//	TASK_RETRY_COUNT         - Retries before permanent failure
//	TASK_RETRY_INTERVAL      - Initial retry backoff
//
// Logging:
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json or console (default: json)
//	LOG_CALLER  - Include caller file:line
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Invalid configuration")
//	}
package config
