// Package resolver looks up a best-guess official website for a project via
// the DuckDuckGo Instant Answer API.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eduscout/eduscout/internal/metrics"
)

const maxResponseBytes = 1 << 20

// Config controls the lookup endpoint and query phrasing.
type Config struct {
	Endpoint  string
	Qualifier string
	Timeout   time.Duration
}

// DuckDuckGo implements project.Resolver against the Instant Answer API.
type DuckDuckGo struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New builds a DuckDuckGo resolver.
func New(cfg Config, logger *zap.Logger) *DuckDuckGo {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.duckduckgo.com/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &DuckDuckGo{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// instantAnswer is the slice of the Instant Answer payload we care about.
type instantAnswer struct {
	AbstractURL string `json:"AbstractURL"`
}

// ResolveWebsite issues one query for the project name plus the configured
// qualifier phrase and extracts the AbstractURL field. Best-effort: every
// failure is logged and converted to an empty string.
func (d *DuckDuckGo) ResolveWebsite(ctx context.Context, name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}

	website, err := d.lookup(ctx, name)
	if err != nil {
		d.logger.Warn("website lookup failed",
			zap.String("project", name),
			zap.Error(err),
		)
		metrics.ObserveResolverLookup(metrics.OutcomeError)
		return ""
	}
	if website == "" {
		metrics.ObserveResolverLookup(metrics.OutcomeEmpty)
		return ""
	}
	metrics.ObserveResolverLookup(metrics.OutcomeOK)
	return website
}

func (d *DuckDuckGo) lookup(ctx context.Context, name string) (string, error) {
	query := name
	if d.cfg.Qualifier != "" {
		query += " " + d.cfg.Qualifier
	}
	params := url.Values{
		"q":       {query},
		"format":  {"json"},
		"no_html": {"1"},
	}
	lookupURL := strings.TrimRight(d.cfg.Endpoint, "/") + "/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("query search endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var answer instantAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return answer.AbstractURL, nil
}
