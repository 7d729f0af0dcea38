// Package config provides configuration for the response pipeline with
// hot-reload support. It uses fsnotify to watch for file changes and atomic
// pointer swaps for zero-downtime updates.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumenchat/respond/internal/enhance"
)

// Config is the complete pipeline configuration.
type Config struct {
	Endpoints EndpointsConfig `yaml:"endpoints"`
	Transport TransportConfig `yaml:"transport"`
	Cache     CacheConfig     `yaml:"cache"`
	Enhancers enhance.Flags   `yaml:"enhancers"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EndpointsConfig names the model endpoints.
type EndpointsConfig struct {
	Chat    string            `yaml:"chat"`
	Stream  string            `yaml:"stream"`
	APIKey  string            `yaml:"api_key"`
	Headers map[string]string `yaml:"headers"`
}

// TransportConfig contains timeout and retry settings.
type TransportConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
}

// CacheConfig selects and sizes the response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend"` // memory, redis
	MaxSize int           `yaml:"max_size"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig contains Redis backend settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Endpoints: EndpointsConfig{
			Chat:   "/api/chat",
			Stream: "/api/chat/stream",
		},
		Transport: TransportConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 2,
			BaseDelay:  time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			MaxSize: 100,
			TTL:     24 * time.Hour,
		},
		Enhancers: enhance.DefaultFlags(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFromFile reads and parses a YAML configuration file.
// Environment variables in the format ${VAR_NAME} are expanded.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Endpoints.Chat == "" {
		return fmt.Errorf("endpoints.chat is required")
	}
	if c.Endpoints.Stream == "" {
		return fmt.Errorf("endpoints.stream is required")
	}
	if c.Transport.MaxRetries < 0 {
		return fmt.Errorf("transport.max_retries cannot be negative")
	}
	if c.Transport.Timeout < 0 {
		return fmt.Errorf("transport.timeout cannot be negative")
	}
	if c.Cache.MaxSize < 0 {
		return fmt.Errorf("cache.max_size cannot be negative")
	}
	switch c.Cache.Backend {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
