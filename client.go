package respond

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/lumenchat/respond/internal/cache"
	"github.com/lumenchat/respond/internal/enhance"
	"github.com/lumenchat/respond/internal/fallback"
	"github.com/lumenchat/respond/internal/metrics"
	"github.com/lumenchat/respond/internal/observability"
	"github.com/lumenchat/respond/internal/prompt"
	"github.com/lumenchat/respond/internal/transport"
	"github.com/lumenchat/respond/pkg/errors"
	"github.com/lumenchat/respond/pkg/types"
)

// Client is the pipeline orchestrator. It composes the cache, request
// builder, transport executor, stream decoder, enhancement pipeline, and
// fallback generator behind two operations: GenerateResponse and
// StreamResponse.
//
// A Client is safe for concurrent use; the cache is the only state shared
// across calls.
type Client struct {
	config   *ClientConfig
	executor *transport.Executor
	store    cache.Store
	enhancer *enhance.Pipeline
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.ChatEndpoint == "" || cfg.StreamEndpoint == "" {
		return nil, fmt.Errorf("chat and stream endpoints are required")
	}

	headers := make(map[string]string, len(cfg.Headers)+1)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}

	c := &Client{
		config: cfg,
		executor: transport.New(transport.Config{
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.BaseDelay,
			Headers:    headers,
			Logger:     cfg.Logger,
		}),
		enhancer: enhance.NewPipeline(cfg.Logger, cfg.Enhancers),
	}

	if cfg.CacheEnabled {
		c.store = cfg.Cache
		if c.store == nil {
			c.store = cache.NewMemoryStore(cache.MemoryConfig{
				MaxSize:    cfg.CacheMaxSize,
				DefaultTTL: cfg.CacheTTL,
			})
		}
	}

	return c, nil
}

// SetEnhancers swaps the enabled enhancement module set. Safe to call while
// requests are in flight; used for hot-reloaded configuration.
func (c *Client) SetEnhancers(flags enhance.Flags) {
	c.enhancer.Reconfigure(flags)
}

// CacheStats returns the cache counters, or zero stats when caching is
// disabled.
func (c *Client) CacheStats() cache.Stats {
	if c.store == nil {
		return cache.Stats{}
	}
	return c.store.Stats()
}

// ClearCache empties the response cache.
func (c *Client) ClearCache(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.Clear(ctx)
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// GenerateResponse produces a complete response for the request. Aside from
// argument validation it never fails: transport, decode, and extraction
// errors all resolve to a canned fallback with Result.Fallback set, and the
// cache is not written on that path.
func (c *Client) GenerateResponse(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Message == "" {
		return nil, errors.NewInvalidRequest("message is required")
	}

	ctx, requestID := observability.GetOrCreateRequestID(ctx)
	logger := c.config.Logger.With("request_id", requestID)

	start := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	}()

	settings := c.resolveSettings(req.Settings)
	key := cache.Fingerprint(settings.Model, req.SystemPrompt, req.Message)

	if cached := c.cacheGet(ctx, key); cached != "" {
		logger.Debug("cache hit", "key", key)
		metrics.CacheHitsTotal.Inc()
		metrics.RequestsTotal.WithLabelValues("generate", "cached").Inc()
		return &Result{Text: cached, Cached: true}, nil
	}
	if c.store != nil {
		metrics.CacheMissesTotal.Inc()
	}

	body, err := c.buildBody(req, settings, false)
	if err != nil {
		logger.Error("request encoding failed", "error", err)
		return c.fallbackResult(logger, fallback.KindError, err), nil
	}

	respBody, err := c.executor.Do(ctx, c.config.ChatEndpoint, body)
	if err != nil {
		if ctx.Err() != nil {
			metrics.RequestsTotal.WithLabelValues("generate", "canceled").Inc()
			return nil, ctx.Err()
		}
		return c.fallbackResult(logger, fallbackKindFor(err), err), nil
	}

	text, shape, err := types.ExtractText(respBody)
	if err != nil {
		logger.Warn("response extraction failed", "error", err)
		return c.fallbackResult(logger, fallback.KindError, err), nil
	}
	logger.Debug("response extracted", "shape", shape.String(), "bytes", len(respBody))

	text = c.enhancer.Run(text, req.Message, req.Context)

	c.cacheSet(ctx, logger, key, text)
	metrics.RequestsTotal.WithLabelValues("generate", "ok").Inc()

	return &Result{Text: text}, nil
}

// StreamResponse opens a streaming generation. The connection is a single
// un-retried attempt: mid-stream retry would duplicate partially-delivered
// tokens. When the connection cannot be opened at all, the returned Stream
// delivers one fallback fragment and then ends; cancellation is surfaced as
// ctx.Err, never as a fallback.
func (c *Client) StreamResponse(ctx context.Context, req *Request) (*Stream, error) {
	if req == nil || req.Message == "" {
		return nil, errors.NewInvalidRequest("message is required")
	}

	ctx, requestID := observability.GetOrCreateRequestID(ctx)
	logger := c.config.Logger.With("request_id", requestID)

	settings := c.resolveSettings(req.Settings)
	body, err := c.buildBody(req, settings, true)
	if err != nil {
		return nil, err
	}

	respBody, err := c.executor.Open(ctx, c.config.StreamEndpoint, body)
	if err != nil {
		if ctx.Err() != nil {
			metrics.RequestsTotal.WithLabelValues("stream", "canceled").Inc()
			return nil, ctx.Err()
		}
		logger.Warn("stream connection failed, serving fallback", "error", err)
		metrics.RequestsTotal.WithLabelValues("stream", "fallback").Inc()
		metrics.FallbacksTotal.WithLabelValues(string(fallbackKindFor(err))).Inc()
		return newFallbackStream(fallback.Pick(fallbackKindFor(err))), nil
	}

	metrics.RequestsTotal.WithLabelValues("stream", "ok").Inc()
	return newStream(ctx, respBody, logger), nil
}

// resolveSettings fills defaults for any model setting the request leaves
// unset.
func (c *Client) resolveSettings(s types.ModelSettings) types.ModelSettings {
	if s.Model == "" {
		s.Model = c.config.Model
	}
	if s.Temperature == nil {
		s.Temperature = &c.config.Temperature
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = c.config.MaxTokens
	}
	if s.TopP == nil {
		s.TopP = &c.config.TopP
	}
	if s.FrequencyPenalty == nil {
		s.FrequencyPenalty = &c.config.FrequencyPenalty
	}
	if s.PresencePenalty == nil {
		s.PresencePenalty = &c.config.PresencePenalty
	}
	return s
}

func (c *Client) buildBody(req *Request, settings types.ModelSettings, stream bool) ([]byte, error) {
	messages := prompt.BuildMessages(req.Message, req.History, req.SystemPrompt, req.Context)

	return json.Marshal(types.ChatRequest{
		Model:            settings.Model,
		Messages:         messages,
		Temperature:      *settings.Temperature,
		MaxTokens:        settings.MaxTokens,
		TopP:             *settings.TopP,
		FrequencyPenalty: *settings.FrequencyPenalty,
		PresencePenalty:  *settings.PresencePenalty,
		Stream:           stream,
	})
}

func (c *Client) cacheGet(ctx context.Context, key string) string {
	if c.store == nil {
		return ""
	}
	value, err := c.store.Get(ctx, key)
	if err != nil || value == nil {
		return ""
	}
	return string(value)
}

func (c *Client) cacheSet(ctx context.Context, logger *slog.Logger, key, text string) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(ctx, key, []byte(text), c.config.CacheTTL); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (c *Client) fallbackResult(logger *slog.Logger, kind fallback.Kind, cause error) *Result {
	logger.Warn("generation failed, serving fallback", "kind", string(kind), "error", cause)
	metrics.RequestsTotal.WithLabelValues("generate", "fallback").Inc()
	metrics.FallbacksTotal.WithLabelValues(string(kind)).Inc()
	return &Result{Text: fallback.Pick(kind), Fallback: true}
}

// fallbackKindFor maps an error to the fallback pool that best describes it.
func fallbackKindFor(err error) fallback.Kind {
	if errors.IsTimeout(err) {
		return fallback.KindTimeout
	}
	return fallback.KindError
}
