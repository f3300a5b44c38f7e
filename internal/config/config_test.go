package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 9090
  timeout_seconds: 30
auth:
  enabled: true
  api_key: secret
listing:
  url: https://projects.example.org/directory
  item_selector: ".card"
  name_selector: "h2"
  desc_selector: ".summary"
  user_agent: scout-agent
  timeout_seconds: 20
headless:
  enabled: true
  nav_timeout_seconds: 40
resolver:
  endpoint: https://search.example.org/
  qualifier: homepage
  timeout_seconds: 5
ai:
  api_key: test-key
  model: gemini-2.0-pro
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Auth.Enabled || cfg.Auth.APIKey != "secret" {
		t.Errorf("Auth = %+v, want enabled with key", cfg.Auth)
	}
	if cfg.Listing.URL != "https://projects.example.org/directory" {
		t.Errorf("Listing.URL = %q", cfg.Listing.URL)
	}
	if cfg.Listing.ItemSelector != ".card" || cfg.Listing.NameSelector != "h2" {
		t.Errorf("Listing selectors = %+v", cfg.Listing)
	}
	if cfg.ListingTimeout() != 20*time.Second {
		t.Errorf("ListingTimeout() = %v, want 20s", cfg.ListingTimeout())
	}
	if !cfg.Headless.Enabled || cfg.NavTimeout() != 40*time.Second {
		t.Errorf("Headless = %+v", cfg.Headless)
	}
	if cfg.Resolver.Qualifier != "homepage" {
		t.Errorf("Resolver.Qualifier = %q", cfg.Resolver.Qualifier)
	}
	if cfg.AI.Model != "gemini-2.0-pro" {
		t.Errorf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.Logging.Development {
		t.Errorf("Logging.Development = true, want false")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	minimal := "listing:\n  url: https://projects.example.org/\n"
	if err := os.WriteFile(path, []byte(minimal), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Listing.ItemSelector != ".project-card" {
		t.Errorf("default item selector = %q", cfg.Listing.ItemSelector)
	}
	if cfg.Resolver.Endpoint != "https://api.duckduckgo.com/" {
		t.Errorf("default resolver endpoint = %q", cfg.Resolver.Endpoint)
	}
	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Errorf("default model = %q", cfg.AI.Model)
	}
	if cfg.AI.APIKey != "" {
		t.Errorf("default api key should be empty, got %q", cfg.AI.APIKey)
	}
	if !cfg.Logging.Development {
		t.Errorf("default logging.development should be true")
	}
}

func TestValidateFailures(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Server:   ServerConfig{Port: 8080, TimeoutSeconds: 60},
			Listing:  ListingConfig{URL: "https://x", ItemSelector: ".c", TimeoutSeconds: 15},
			Resolver: ResolverConfig{Endpoint: "https://api.duckduckgo.com/", TimeoutSeconds: 10},
			AI:       AIConfig{Model: "gemini-2.0-flash"},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"missing listing url", func(c *Config) { c.Listing.URL = "" }, "listing.url"},
		{"empty item selector", func(c *Config) { c.Listing.ItemSelector = "" }, "item_selector"},
		{"headless without timeout", func(c *Config) { c.Headless = HeadlessConfig{Enabled: true} }, "nav_timeout"},
		{"empty resolver endpoint", func(c *Config) { c.Resolver.Endpoint = "" }, "resolver.endpoint"},
		{"empty model", func(c *Config) { c.AI.Model = "" }, "ai.model"},
		{"auth without key", func(c *Config) { c.Auth.Enabled = true }, "auth.api_key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}
