// Package config loads and validates service configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Listing  ListingConfig  `mapstructure:"listing"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	AI       AIConfig       `mapstructure:"ai"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// ListingConfig points the fetcher at the external listing page and names
// the structural pattern each project item follows.
type ListingConfig struct {
	URL            string `mapstructure:"url"`
	ItemSelector   string `mapstructure:"item_selector"`
	NameSelector   string `mapstructure:"name_selector"`
	DescSelector   string `mapstructure:"desc_selector"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// HeadlessConfig configures the headless rendering fallback.
type HeadlessConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
}

// ResolverConfig configures the website lookup endpoint.
type ResolverConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	Qualifier      string `mapstructure:"qualifier"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// AIConfig holds the completion endpoint credential and model selection.
// An empty APIKey is a valid state: discovery and enrichment still work,
// classification is disabled until a key is provided.
type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EDUSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("eduscout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 60)
	v.SetDefault("listing.item_selector", ".project-card")
	v.SetDefault("listing.name_selector", "h3")
	v.SetDefault("listing.desc_selector", "p")
	v.SetDefault("listing.user_agent", "eduscout-bot/0.1")
	v.SetDefault("listing.timeout_seconds", 15)
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.nav_timeout_seconds", 25)
	v.SetDefault("resolver.endpoint", "https://api.duckduckgo.com/")
	v.SetDefault("resolver.qualifier", "official website")
	v.SetDefault("resolver.timeout_seconds", 10)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("server.timeout_seconds must be > 0")
	}
	if c.Listing.URL == "" {
		return fmt.Errorf("listing.url is required")
	}
	if c.Listing.ItemSelector == "" {
		return fmt.Errorf("listing.item_selector must not be empty")
	}
	if c.Listing.TimeoutSeconds <= 0 {
		return fmt.Errorf("listing.timeout_seconds must be > 0")
	}
	if c.Headless.Enabled && c.Headless.NavTimeoutSec <= 0 {
		return fmt.Errorf("headless.nav_timeout_seconds must be > 0 when headless is enabled")
	}
	if c.Resolver.Endpoint == "" {
		return fmt.Errorf("resolver.endpoint must not be empty")
	}
	if c.Resolver.TimeoutSeconds <= 0 {
		return fmt.Errorf("resolver.timeout_seconds must be > 0")
	}
	if c.AI.Model == "" {
		return fmt.Errorf("ai.model must not be empty")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	return nil
}

// ListingTimeout returns the listing fetch timeout as a duration.
func (c Config) ListingTimeout() time.Duration {
	return time.Duration(c.Listing.TimeoutSeconds) * time.Second
}

// ResolverTimeout returns the website lookup timeout as a duration.
func (c Config) ResolverTimeout() time.Duration {
	return time.Duration(c.Resolver.TimeoutSeconds) * time.Second
}

// NavTimeout returns the headless navigation timeout as a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Headless.NavTimeoutSec) * time.Second
}

// ServerTimeout returns the per-request HTTP timeout as a duration.
func (c Config) ServerTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}
