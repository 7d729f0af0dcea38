package respond

import (
	"log/slog"
	"time"

	"github.com/lumenchat/respond/internal/cache"
	"github.com/lumenchat/respond/internal/config"
	"github.com/lumenchat/respond/internal/enhance"
)

// ClientConfig holds all configuration for the pipeline client.
type ClientConfig struct {
	// Endpoints
	ChatEndpoint   string
	StreamEndpoint string
	APIKey         string
	Headers        map[string]string

	// Model defaults, applied when a request leaves a setting unset
	Model            string
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64

	// Transport
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration

	// Caching
	CacheEnabled bool
	Cache        cache.Store // custom cache implementation
	CacheMaxSize int
	CacheTTL     time.Duration

	// Enhancement
	Enhancers enhance.Flags

	// Logging
	Logger *slog.Logger
}

// Option is a function that configures the Client.
type Option func(*ClientConfig)

// defaultConfig returns sensible defaults.
func defaultConfig() *ClientConfig {
	return &ClientConfig{
		ChatEndpoint:   "/api/chat",
		StreamEndpoint: "/api/chat/stream",
		Model:          "gpt-4o",
		Temperature:    0.7,
		MaxTokens:      1000,
		TopP:           1,
		Timeout:        30 * time.Second,
		MaxRetries:     2,
		BaseDelay:      time.Second,
		CacheEnabled:   true,
		CacheMaxSize:   100,
		CacheTTL:       24 * time.Hour,
		Enhancers:      enhance.DefaultFlags(),
		Logger:         slog.Default(),
	}
}

// WithEndpoints sets the chat and streaming endpoint URLs.
func WithEndpoints(chat, stream string) Option {
	return func(c *ClientConfig) {
		c.ChatEndpoint = chat
		c.StreamEndpoint = stream
	}
}

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *ClientConfig) {
		c.APIKey = key
	}
}

// WithHeaders adds custom headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *ClientConfig) {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			c.Headers[k] = v
		}
	}
}

// WithModel sets the default model identifier used when a request does not
// name one.
func WithModel(model string) Option {
	return func(c *ClientConfig) {
		c.Model = model
	}
}

// WithTimeout sets the per-attempt HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *ClientConfig) {
		c.Timeout = d
	}
}

// WithRetry configures retry behavior.
// count: number of retry attempts after the first (0 = no retries)
// backoff: initial backoff duration (exponential backoff is applied)
func WithRetry(count int, backoff time.Duration) Option {
	return func(c *ClientConfig) {
		c.MaxRetries = count
		c.BaseDelay = backoff
	}
}

// WithCache sets a custom cache implementation and enables caching.
//
// Example:
//
//	store, _ := respond.NewRedisCache("localhost:6379")
//	respond.WithCache(store)
func WithCache(store cache.Store) Option {
	return func(c *ClientConfig) {
		c.CacheEnabled = true
		c.Cache = store
	}
}

// WithCacheDisabled turns off response caching entirely.
func WithCacheDisabled() Option {
	return func(c *ClientConfig) {
		c.CacheEnabled = false
	}
}

// WithCacheSize bounds the default in-memory cache. Ignored when a custom
// cache is supplied.
func WithCacheSize(maxSize int) Option {
	return func(c *ClientConfig) {
		c.CacheMaxSize = maxSize
	}
}

// WithCacheTTL sets the cache entry lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *ClientConfig) {
		c.CacheTTL = ttl
	}
}

// WithEnhancers selects which enhancement modules run.
func WithEnhancers(flags enhance.Flags) Option {
	return func(c *ClientConfig) {
		c.Enhancers = flags
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *ClientConfig) {
		c.Logger = logger
	}
}

// NewRedisCache creates a Redis-backed cache store, for use with WithCache.
func NewRedisCache(addr string) (cache.Store, error) {
	cfg := cache.DefaultRedisConfig()
	cfg.Addr = addr
	return cache.NewRedisStore(cfg)
}

// optionsFromConfig translates a loaded configuration file into options, so
// file- and code-driven setup share one path.
func optionsFromConfig(cfg *config.Config) []Option {
	opts := []Option{
		WithEndpoints(cfg.Endpoints.Chat, cfg.Endpoints.Stream),
		WithTimeout(cfg.Transport.Timeout),
		WithRetry(cfg.Transport.MaxRetries, cfg.Transport.BaseDelay),
		WithCacheTTL(cfg.Cache.TTL),
		WithCacheSize(cfg.Cache.MaxSize),
		WithEnhancers(cfg.Enhancers),
	}
	if cfg.Endpoints.APIKey != "" {
		opts = append(opts, WithAPIKey(cfg.Endpoints.APIKey))
	}
	if len(cfg.Endpoints.Headers) > 0 {
		opts = append(opts, WithHeaders(cfg.Endpoints.Headers))
	}
	if !cfg.Cache.Enabled {
		opts = append(opts, WithCacheDisabled())
	}
	return opts
}

// NewFromConfig builds a client from a loaded configuration file. Extra
// options are applied after the file and override it.
func NewFromConfig(cfg *config.Config, extra ...Option) (*Client, error) {
	opts := optionsFromConfig(cfg)

	if cfg.Cache.Enabled && cfg.Cache.Backend == "redis" {
		store, err := cache.NewRedisStore(cache.RedisConfig{
			Addr:       cfg.Cache.Redis.Addr,
			Password:   cfg.Cache.Redis.Password,
			DB:         cfg.Cache.Redis.DB,
			DefaultTTL: cfg.Cache.TTL,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithCache(store))
	}

	opts = append(opts, extra...)
	return New(opts...)
}
