package respond

import (
	"testing"
	"time"

	"github.com/lumenchat/respond/internal/config"
)

func TestDefaultClientConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.Model)
	}
	if cfg.Temperature != 0.7 || cfg.MaxTokens != 1000 || cfg.TopP != 1 {
		t.Errorf("model defaults = (%v, %v, %v)", cfg.Temperature, cfg.MaxTokens, cfg.TopP)
	}
	if cfg.Timeout != 30*time.Second || cfg.MaxRetries != 2 || cfg.BaseDelay != time.Second {
		t.Errorf("transport defaults = (%v, %v, %v)", cfg.Timeout, cfg.MaxRetries, cfg.BaseDelay)
	}
	if !cfg.CacheEnabled || cfg.CacheMaxSize != 100 || cfg.CacheTTL != 24*time.Hour {
		t.Errorf("cache defaults = (%v, %v, %v)", cfg.CacheEnabled, cfg.CacheMaxSize, cfg.CacheTTL)
	}
	if !cfg.Enhancers.Code || !cfg.Enhancers.Markdown || cfg.Enhancers.Citation || cfg.Enhancers.Math {
		t.Errorf("enhancer defaults = %+v", cfg.Enhancers)
	}
}

func TestOptions(t *testing.T) {
	cfg := defaultConfig()
	opts := []Option{
		WithEndpoints("https://api.example.com/chat", "https://api.example.com/stream"),
		WithAPIKey("sk-test"),
		WithModel("gpt-4o-mini"),
		WithTimeout(5 * time.Second),
		WithRetry(4, 100*time.Millisecond),
		WithCacheTTL(time.Minute),
		WithCacheSize(10),
		WithHeaders(map[string]string{"X-Org": "acme"}),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.ChatEndpoint != "https://api.example.com/chat" {
		t.Errorf("ChatEndpoint = %q", cfg.ChatEndpoint)
	}
	if cfg.APIKey != "sk-test" || cfg.Model != "gpt-4o-mini" {
		t.Errorf("APIKey/Model = %q/%q", cfg.APIKey, cfg.Model)
	}
	if cfg.Timeout != 5*time.Second || cfg.MaxRetries != 4 || cfg.BaseDelay != 100*time.Millisecond {
		t.Errorf("transport = (%v, %v, %v)", cfg.Timeout, cfg.MaxRetries, cfg.BaseDelay)
	}
	if cfg.CacheTTL != time.Minute || cfg.CacheMaxSize != 10 {
		t.Errorf("cache = (%v, %v)", cfg.CacheTTL, cfg.CacheMaxSize)
	}
	if cfg.Headers["X-Org"] != "acme" {
		t.Errorf("Headers = %v", cfg.Headers)
	}
}

func TestNew_RequiresEndpoints(t *testing.T) {
	if _, err := New(WithEndpoints("", "")); err == nil {
		t.Error("New() with empty endpoints should fail")
	}
}

func TestNewFromConfig(t *testing.T) {
	fileCfg := config.DefaultConfig()
	fileCfg.Endpoints.Chat = "https://api.example.com/chat"
	fileCfg.Endpoints.Stream = "https://api.example.com/stream"
	fileCfg.Transport.MaxRetries = 5
	fileCfg.Enhancers.Math = true

	client, err := NewFromConfig(fileCfg)
	if err != nil {
		t.Fatalf("NewFromConfig() error: %v", err)
	}
	defer client.Close()

	if client.config.ChatEndpoint != "https://api.example.com/chat" {
		t.Errorf("ChatEndpoint = %q", client.config.ChatEndpoint)
	}
	if client.config.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", client.config.MaxRetries)
	}
	if !client.config.Enhancers.Math {
		t.Error("Enhancers.Math should carry over from file config")
	}
}

func TestNewFromConfig_ExtraOptionsOverride(t *testing.T) {
	fileCfg := config.DefaultConfig()
	fileCfg.Transport.MaxRetries = 5

	client, err := NewFromConfig(fileCfg, WithRetry(0, time.Second))
	if err != nil {
		t.Fatalf("NewFromConfig() error: %v", err)
	}
	defer client.Close()

	if client.config.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0 (extra options override the file)", client.config.MaxRetries)
	}
}
