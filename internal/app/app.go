// Package app initializes and holds long-lived application services, acting
// as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eduscout/eduscout/internal/classifier"
	"github.com/eduscout/eduscout/internal/clock/system"
	"github.com/eduscout/eduscout/internal/config"
	"github.com/eduscout/eduscout/internal/id/uuid"
	"github.com/eduscout/eduscout/internal/listing"
	"github.com/eduscout/eduscout/internal/logging"
	"github.com/eduscout/eduscout/internal/metrics"
	"github.com/eduscout/eduscout/internal/pipeline"
	"github.com/eduscout/eduscout/internal/project"
	"github.com/eduscout/eduscout/internal/resolver"
	"github.com/eduscout/eduscout/internal/store/memory"
)

// App holds the shared, long-lived services for the application. It is
// initialized once at startup and passed to the commands that need it.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	clock    project.Clock
	store    *memory.Store
	pipeline *pipeline.Pipeline
	renderer *listing.ChromeRenderer

	aiConfigured bool
}

// New builds the service graph from configuration. The AI client is
// constructed here, once, and injected into the classifier; a missing
// credential leaves the classifier with a nil client, which it reports as a
// configuration error on every classification attempt.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics.Init()

	var completion classifier.CompletionClient
	aiConfigured := cfg.AI.APIKey != ""
	if aiConfigured {
		gemini, err := classifier.NewGeminiClient(ctx, cfg.AI.APIKey)
		if err != nil {
			return nil, fmt.Errorf("init ai client: %w", err)
		}
		completion = gemini
		logger.Info("AI client initialized", zap.String("model", cfg.AI.Model))
	} else {
		logger.Warn("no AI credential configured; classification is disabled until EDUSCOUT_AI_API_KEY is set")
	}

	var renderer *listing.ChromeRenderer
	var fetcherRenderer listing.Renderer
	if cfg.Headless.Enabled {
		renderer = listing.NewChromeRenderer(listing.RenderConfig{
			UserAgent:         cfg.Listing.UserAgent,
			NavigationTimeout: cfg.NavTimeout(),
		})
		fetcherRenderer = renderer
		logger.Info("headless rendering fallback enabled")
	}

	clock := system.New()
	fetcher := listing.New(listing.Config{
		URL:          cfg.Listing.URL,
		ItemSelector: cfg.Listing.ItemSelector,
		NameSelector: cfg.Listing.NameSelector,
		DescSelector: cfg.Listing.DescSelector,
		UserAgent:    cfg.Listing.UserAgent,
		Timeout:      cfg.ListingTimeout(),
	}, uuid.New(), clock, fetcherRenderer, logger)

	websites := resolverFromConfig(cfg, logger)
	suitability := classifier.New(completion, cfg.AI.Model, logger)

	return &App{
		cfg:          cfg,
		logger:       logger,
		clock:        clock,
		store:        memory.New(),
		pipeline:     pipeline.New(fetcher, websites, suitability, clock, logger),
		renderer:     renderer,
		aiConfigured: aiConfigured,
	}, nil
}

func resolverFromConfig(cfg config.Config, logger *zap.Logger) *resolver.DuckDuckGo {
	return resolver.New(resolver.Config{
		Endpoint:  cfg.Resolver.Endpoint,
		Qualifier: cfg.Resolver.Qualifier,
		Timeout:   cfg.ResolverTimeout(),
	}, logger)
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Store returns the session working set.
func (a *App) Store() *memory.Store {
	return a.store
}

// Pipeline returns the discovery/analysis orchestrator.
func (a *App) Pipeline() *pipeline.Pipeline {
	return a.pipeline
}

// AIConfigured reports whether a completion credential was present at startup.
func (a *App) AIConfigured() bool {
	return a.aiConfigured
}

// Close shuts down long-lived resources and flushes the logger.
func (a *App) Close() {
	if a.renderer != nil {
		a.renderer.Close()
	}
	// Sync can fail on stderr depending on the platform; nothing to do
	// about it at shutdown.
	_ = a.logger.Sync()
}
