package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30*time.Second, cfg.Transport.Timeout)
	assert.Equal(t, 2, cfg.Transport.MaxRetries)
	assert.Equal(t, time.Second, cfg.Transport.BaseDelay)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 100, cfg.Cache.MaxSize)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.Enhancers.Code)
	assert.True(t, cfg.Enhancers.Markdown)
	assert.False(t, cfg.Enhancers.Citation)
	assert.False(t, cfg.Enhancers.Math)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
endpoints:
  chat: https://example.com/v1/chat
  stream: https://example.com/v1/chat/stream
transport:
  timeout: 10s
  max_retries: 1
cache:
  backend: redis
  redis:
    addr: localhost:6379
enhancers:
  math: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/v1/chat", cfg.Endpoints.Chat)
	assert.Equal(t, 10*time.Second, cfg.Transport.Timeout)
	assert.Equal(t, 1, cfg.Transport.MaxRetries)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
	assert.True(t, cfg.Enhancers.Math)
	// Untouched fields keep defaults.
	assert.Equal(t, time.Second, cfg.Transport.BaseDelay)
	assert.True(t, cfg.Enhancers.Code)
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	t.Setenv("RESPOND_TEST_KEY", "sk-test-123")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
endpoints:
  chat: /api/chat
  stream: /api/chat/stream
  api_key: ${RESPOND_TEST_KEY}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", cfg.Endpoints.APIKey)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing chat endpoint", func(c *Config) { c.Endpoints.Chat = "" }},
		{"missing stream endpoint", func(c *Config) { c.Endpoints.Stream = "" }},
		{"negative retries", func(c *Config) { c.Transport.MaxRetries = -1 }},
		{"negative cache size", func(c *Config) { c.Cache.MaxSize = -5 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestManager_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  max_retries: 1\n"), 0o644))

	m, err := NewManager(path, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 1, m.Current().Transport.MaxRetries)

	changed := make(chan *Config, 1)
	m.OnChange(func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("transport:\n  max_retries: 3\n"), 0o644))

	select {
	case cfg := <-changed:
		assert.Equal(t, 3, cfg.Transport.MaxRetries)
		assert.Equal(t, 3, m.Current().Transport.MaxRetries)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestManager_KeepsLastGoodOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  max_retries: 1\n"), 0o644))

	m, err := NewManager(path, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, os.WriteFile(path, []byte(":::not yaml:::"), 0o644))
	time.Sleep(reloadDebounce + 500*time.Millisecond)

	assert.Equal(t, 1, m.Current().Transport.MaxRetries)
}
