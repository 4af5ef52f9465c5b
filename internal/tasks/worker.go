// isccd - ISCC Content Code Generation Service
// Copyright 2026 Codelabel Oy
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/codelabel/isccd

package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/codelabel/isccd/internal/config"
	"github.com/codelabel/isccd/internal/iscc"
	"github.com/codelabel/isccd/internal/logging"
	"github.com/codelabel/isccd/internal/metrics"
)

const breakerName = "content_download"

// errTooLarge marks downloads rejected by the size cap.
var errTooLarge = errors.New("content too large")

// errPermanent wraps failures that no retry can fix: bad response
// status, oversized content, unsupported media. The processor records
// them on the task and acks the message instead of retrying.
type errPermanent struct {
	err error
}

func (e *errPermanent) Error() string { return e.err.Error() }
func (e *errPermanent) Unwrap() error { return e.err }

func permanent(err error) error {
	return &errPermanent{err: err}
}

// IsPermanent reports whether err is a non-retryable task failure.
func IsPermanent(err error) bool {
	var pe *errPermanent
	return errors.As(err, &pe)
}

// Processor downloads task URLs and generates their ISCC codes.
//
// Remote fetches run behind a circuit breaker so a dead or slow origin
// does not pin every worker on timeouts, and behind a shared rate
// limiter so bulk submissions stay polite to origins.
type Processor struct {
	cfg     config.TasksConfig
	store   Store
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[int64]
	limiter *rate.Limiter
	tempDir string
	log     *logging.TaskLogger
}

// NewProcessor creates a task processor.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 1 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 5 requests
func NewProcessor(cfg config.TasksConfig, store Store, tempDir string) *Processor {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[int64](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().
				Str("component", "tasks").
				Str("from", fromStr).
				Str("to", toStr).
				Msg("Download circuit breaker state transition")
			metrics.RecordBreakerTransition(name, fromStr, toStr, stateToFloat(to))
		},
		// Permanent failures (bad status, oversized content) say nothing
		// about origin health, so only transport errors count.
		IsSuccessful: func(err error) bool {
			return err == nil || IsPermanent(err)
		},
	})

	var limiter *rate.Limiter
	if cfg.DownloadsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.DownloadsPerSecond), 1)
	}

	if tempDir == "" {
		tempDir = os.TempDir()
	}

	return &Processor{
		cfg:     cfg,
		store:   store,
		client:  &http.Client{Timeout: cfg.DownloadTimeout},
		breaker: breaker,
		limiter: limiter,
		tempDir: tempDir,
		log:     logging.NewTaskLogger(),
	}
}

// Process runs a single task to completion. A returned error means the
// failure is transient and the task should be retried; permanent
// failures are recorded on the task record and nil is returned.
func (p *Processor) Process(ctx context.Context, id string) error {
	task, err := p.store.Get(ctx, id)
	if errors.Is(err, ErrTaskNotFound) {
		// Record deleted while queued
		return nil
	}
	if err != nil {
		return err
	}
	if task.Finished() {
		// Duplicate delivery after completion
		return nil
	}

	task.Attempts++
	if task.Attempts > 1 {
		metrics.RecordTaskRetry()
	}
	now := time.Now().UTC()
	task.StartedAt = &now
	if err := p.transition(ctx, task, StateDownloading); err != nil {
		return err
	}

	path, err := p.download(ctx, task)
	if err != nil {
		return p.fail(ctx, task, fmt.Errorf("download failed: %w", err))
	}
	defer os.Remove(path)

	if err := p.transition(ctx, task, StateProcessing); err != nil {
		return err
	}

	result, err := p.generate(path, task)
	if err != nil {
		return p.fail(ctx, task, fmt.Errorf("processing failed: %w", err))
	}

	task.MarkSuccess(result)
	if err := p.store.Put(ctx, task); err != nil {
		return err
	}
	metrics.RecordTaskFinished(true, time.Duration(task.DurationMs)*time.Millisecond)
	p.log.TaskCompleted(task.ID, result.ISCC, time.Duration(task.DurationMs)*time.Millisecond)
	return nil
}

// transition persists a task state change.
func (p *Processor) transition(ctx context.Context, task *Task, to State) error {
	from := task.State
	task.State = to
	if err := p.store.Put(ctx, task); err != nil {
		return err
	}
	p.log.TaskStateChanged(task.ID, string(from), string(to))
	return nil
}

// fail records the failure on the task. Permanent errors terminate the
// task and ack the message; transient errors leave the record in its
// current state and bubble up for retry.
func (p *Processor) fail(ctx context.Context, task *Task, err error) error {
	if IsPermanent(err) || task.Attempts > p.cfg.RetryCount {
		task.MarkFailed(err.Error())
		if putErr := p.store.Put(ctx, task); putErr != nil {
			return putErr
		}
		metrics.RecordTaskFinished(false, time.Duration(task.DurationMs)*time.Millisecond)
		p.log.TaskFailed(task.ID, err, task.Attempts)
		return nil
	}
	return err
}

// download fetches the task URL into a temp file and returns its path.
func (p *Processor) download(ctx context.Context, task *Task) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	p.log.DownloadStarted(task.ID, task.URL)
	start := time.Now()

	tmp, err := os.CreateTemp(p.tempDir, "isccd-task-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()

	written, err := p.breaker.Execute(func() (int64, error) {
		return p.fetch(ctx, task.URL, tmp)
	})
	closeErr := tmp.Close()

	if err != nil {
		os.Remove(path)
		p.recordDownloadError(err)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerResult(breakerName, "rejected")
			return "", fmt.Errorf("download circuit open: %w", err)
		}
		metrics.RecordBreakerResult(breakerName, "failure")
		return "", err
	}
	if closeErr != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", closeErr)
	}

	metrics.RecordBreakerResult(breakerName, "success")
	metrics.RecordDownload(written, time.Since(start))
	p.log.DownloadFinished(task.ID, written, time.Since(start))
	return path, nil
}

// fetch performs the HTTP GET and streams the body to w, enforcing the
// configured size cap.
func (p *Processor) fetch(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", "isccd/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode >= 500 {
			// Origin errors may clear up; client errors will not.
			return 0, err
		}
		return 0, permanent(err)
	}

	// Read one byte past the cap to distinguish exactly-at-cap from over.
	written, err := io.Copy(w, io.LimitReader(resp.Body, p.cfg.MaxDownloadBytes+1))
	if err != nil {
		return 0, fmt.Errorf("read content: %w", err)
	}
	if written > p.cfg.MaxDownloadBytes {
		return 0, permanent(fmt.Errorf("%w: exceeds %d byte limit", errTooLarge, p.cfg.MaxDownloadBytes))
	}
	return written, nil
}

// generate runs full ISCC generation over the downloaded file.
func (p *Processor) generate(path string, task *Task) (*iscc.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open downloaded file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	result, err := iscc.CodeISCC(f, task.Title, task.Extra)
	if err != nil {
		metrics.RecordCodeError("iscc", classifyGenerationError(err))
		// Generation errors are input problems, not infrastructure ones.
		return nil, permanent(err)
	}
	metrics.RecordCodeGenerated("iscc", time.Since(start))
	return result, nil
}

// recordDownloadError classifies a download failure for metrics.
func (p *Processor) recordDownloadError(err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		metrics.RecordDownloadError("timeout")
	case errors.Is(err, errTooLarge):
		metrics.RecordDownloadError("too_large")
	case IsPermanent(err):
		metrics.RecordDownloadError("status")
	default:
		metrics.RecordDownloadError("network")
	}
}

// classifyGenerationError maps a generation failure to an error_type label.
func classifyGenerationError(err error) string {
	if errors.Is(err, iscc.ErrUnsupportedMediaType) {
		return "media_type"
	}
	return "other"
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
