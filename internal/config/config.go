// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config is the root configuration for isccd.
// Sections map 1:1 to top-level YAML keys and environment variable
// prefixes; see koanf.go for the layering and the full env mapping.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Upload   UploadConfig   `koanf:"upload"`
	Tasks    TasksConfig    `koanf:"tasks"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `koanf:"port"`

	// Host is the bind address. Default 0.0.0.0 for container use.
	Host string `koanf:"host"`

	// Timeout bounds request read/write and handler execution.
	Timeout time.Duration `koanf:"timeout"`

	// Environment selects development or production behavior checks.
	Environment string `koanf:"environment"`
}

// SecurityConfig holds CORS, rate limiting and API key settings.
type SecurityConfig struct {
	// CORSOrigins lists allowed origins. "*" allows all (development).
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the number of requests allowed per window per IP.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limiting window duration.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns off rate limiting entirely.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// APIKey, when set, requires clients to present it in the
	// X-API-Key header on all /api/v1 routes except health checks.
	APIKey string `koanf:"api_key"`
}

// UploadConfig bounds multipart file uploads.
type UploadConfig struct {
	// MaxBytes is the maximum accepted upload size.
	MaxBytes int64 `koanf:"max_bytes"`

	// TempDir is where upload spill files are written.
	// Empty means os.TempDir().
	TempDir string `koanf:"temp_dir"`
}

// TasksConfig holds the async URL processing pipeline settings.
type TasksConfig struct {
	// Enabled turns the async task pipeline on.
	Enabled bool `koanf:"enabled"`

	// Workers is the number of concurrent task processors.
	// 0 means runtime.NumCPU().
	Workers int `koanf:"workers"`

	// StorePath is the Badger directory for task state and results.
	StorePath string `koanf:"store_path"`

	// DownloadTimeout bounds a single content download.
	DownloadTimeout time.Duration `koanf:"download_timeout"`

	// MaxDownloadBytes caps remote content size.
	MaxDownloadBytes int64 `koanf:"max_download_bytes"`

	// DownloadsPerSecond throttles outbound downloads across all
	// workers. 0 means unlimited.
	DownloadsPerSecond float64 `koanf:"downloads_per_second"`

	// ResultTTL is how long finished task records are retained.
	ResultTTL time.Duration `koanf:"result_ttl"`

	// RetryCount is how many times a failed task is retried before
	// it is marked failed permanently.
	RetryCount int `koanf:"retry_count"`

	// RetryInterval is the initial backoff between retries.
	RetryInterval time.Duration `koanf:"retry_interval"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes file:line in log events.
	Caller bool `koanf:"caller"`
}

// EffectiveWorkers resolves the configured worker count, substituting
// the CPU count when unset.
func (c *TasksConfig) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// IsProduction reports whether the server runs in production mode.
func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load loads configuration from defaults, an optional YAML file and
// environment variables, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in range 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	switch strings.ToLower(c.Server.Environment) {
	case "development", "production", "test":
	default:
		return fmt.Errorf("server.environment must be development, production or test, got %q", c.Server.Environment)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
		}
	}

	// Wildcard CORS combined with an API key would let any site drive
	// authenticated requests from a captured key.
	if c.Server.IsProduction() && c.Security.APIKey != "" {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("security.cors_origins must not contain * in production when an API key is set")
			}
		}
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes)
	}

	if c.Tasks.Enabled {
		if c.Tasks.StorePath == "" {
			return fmt.Errorf("tasks.store_path is required when tasks are enabled")
		}
		if c.Tasks.Workers < 0 {
			return fmt.Errorf("tasks.workers must not be negative, got %d", c.Tasks.Workers)
		}
		if c.Tasks.DownloadTimeout <= 0 {
			return fmt.Errorf("tasks.download_timeout must be positive, got %v", c.Tasks.DownloadTimeout)
		}
		if c.Tasks.MaxDownloadBytes <= 0 {
			return fmt.Errorf("tasks.max_download_bytes must be positive, got %d", c.Tasks.MaxDownloadBytes)
		}
		if c.Tasks.ResultTTL <= 0 {
			return fmt.Errorf("tasks.result_ttl must be positive, got %v", c.Tasks.ResultTTL)
		}
		if c.Tasks.RetryCount < 0 {
			return fmt.Errorf("tasks.retry_count must not be negative, got %d", c.Tasks.RetryCount)
		}
	}

	return nil
}
