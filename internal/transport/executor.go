// Package transport issues HTTP requests to the model endpoints, enforcing a
// per-attempt timeout and retrying transient failures with exponential
// backoff.
package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/lumenchat/respond/internal/metrics"
	pipeerrors "github.com/lumenchat/respond/pkg/errors"
)

// Config holds executor settings.
type Config struct {
	Timeout    time.Duration // per-attempt deadline
	MaxRetries int           // additional attempts after the first
	BaseDelay  time.Duration // backoff base; delay before retry n is BaseDelay * 2^(n-1)
	Headers    map[string]string
	Logger     *slog.Logger
}

// Executor sends request bodies to an endpoint. It is safe for concurrent
// use.
type Executor struct {
	client     *http.Client
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	headers    map[string]string
	logger     *slog.Logger
}

// New creates an executor with a pooled HTTP transport.
func New(cfg Config) *Executor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Executor{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		headers:    cfg.Headers,
		logger:     cfg.Logger,
	}
}

// Do posts body to endpoint and returns the response body. Each attempt runs
// under its own timeout; a timed-out attempt counts toward the retry budget
// rather than aborting the whole operation. After maxRetries+1 failed
// attempts the last observed error is wrapped in a RequestFailed.
func (e *Executor) Do(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.RetriesTotal.Inc()
			delay := e.baseDelay * time.Duration(1<<(attempt-1))
			e.logger.Debug("retrying request",
				"endpoint", endpoint,
				"attempt", attempt,
				"delay", delay,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		respBody, err := e.doOnce(ctx, endpoint, body)
		attempts++
		if err == nil {
			return respBody, nil
		}
		lastErr = err

		if !pipeerrors.IsRetryable(err) {
			break
		}
	}

	e.logger.Error("request failed after retries",
		"endpoint", endpoint,
		"attempts", attempts,
		"error", lastErr,
	)
	return nil, pipeerrors.NewRequestFailed(lastErr)
}

func (e *Executor) doOnce(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.send(attemptCtx, endpoint, body, false)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() == context.DeadlineExceeded {
			return nil, pipeerrors.NewTimeoutError("request timed out")
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return respBody, nil
}

// Open issues the streaming request. It is a single un-retried attempt:
// retrying mid-stream would duplicate partially-delivered tokens. The
// returned body stays open until the caller closes it; ctx cancellation
// closes the underlying connection.
func (e *Executor) Open(ctx context.Context, endpoint string, body []byte) (io.ReadCloser, error) {
	resp, err := e.send(ctx, endpoint, body, true)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}

	return resp.Body, nil
}

func (e *Executor) send(ctx context.Context, endpoint string, body []byte, stream bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}

	return e.client.Do(req)
}

// statusError maps a non-success response to a PipelineError, preferring the
// server-provided error message when one is present.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			message = payload.Message
		case payload.Error.Message != "":
			message = payload.Error.Message
		}
	}

	return pipeerrors.FromStatus(resp.StatusCode, message)
}
