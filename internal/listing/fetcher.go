// Package listing retrieves the external project directory page and
// extracts the raw project records from its markup.
package listing

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/eduscout/eduscout/internal/metrics"
	"github.com/eduscout/eduscout/internal/project"
)

// Config controls listing fetch behavior. The selectors describe the
// structural convention of the listing page: repeated ItemSelector
// containers, each holding a name, a description, and an anchor.
type Config struct {
	URL          string
	ItemSelector string
	NameSelector string
	DescSelector string
	UserAgent    string
	Timeout      time.Duration
}

// Renderer produces the rendered DOM of a page whose markup is built by
// JavaScript. Optional; used only when the static fetch yields no items.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// Fetcher implements project.Lister against the configured listing page.
type Fetcher struct {
	cfg      Config
	ids      project.IDGenerator
	clock    project.Clock
	renderer Renderer
	logger   *zap.Logger
}

// New builds a Fetcher. renderer may be nil to disable the headless fallback.
func New(cfg Config, ids project.IDGenerator, clock project.Clock, renderer Renderer, logger *zap.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Fetcher{
		cfg:      cfg,
		ids:      ids,
		clock:    clock,
		renderer: renderer,
		logger:   logger,
	}
}

// FetchListing performs one retrieval of the listing page and returns the
// extracted records in document order. Transport and parse failures are
// absorbed: the cause is logged and an empty slice returned.
func (f *Fetcher) FetchListing(ctx context.Context) []project.Project {
	projects, err := f.fetchStatic()
	if err != nil {
		f.logger.Warn("listing fetch failed",
			zap.String("url", f.cfg.URL),
			zap.Error(err),
		)
		metrics.ObserveDiscovery(metrics.OutcomeError, 0)
		return []project.Project{}
	}

	if len(projects) == 0 && f.renderer != nil {
		projects, err = f.fetchRendered(ctx)
		if err != nil {
			f.logger.Warn("rendered listing fetch failed",
				zap.String("url", f.cfg.URL),
				zap.Error(err),
			)
			metrics.ObserveDiscovery(metrics.OutcomeError, 0)
			return []project.Project{}
		}
	}

	if len(projects) == 0 {
		f.logger.Info("listing contained no project items", zap.String("url", f.cfg.URL))
		metrics.ObserveDiscovery(metrics.OutcomeEmpty, 0)
		return []project.Project{}
	}

	f.logger.Info("listing fetched",
		zap.String("url", f.cfg.URL),
		zap.Int("projects", len(projects)),
	)
	metrics.ObserveDiscovery(metrics.OutcomeOK, len(projects))
	return projects
}

func (f *Fetcher) fetchStatic() ([]project.Project, error) {
	collector := colly.NewCollector(colly.UserAgent(f.cfg.UserAgent))
	collector.SetRequestTimeout(f.cfg.Timeout)

	var (
		projects []project.Project
		fetchErr error
	)
	collector.OnHTML(f.cfg.ItemSelector, func(e *colly.HTMLElement) {
		p, ok := f.buildProject(e.DOM, e.Request.AbsoluteURL)
		if ok {
			projects = append(projects, p)
		}
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(f.cfg.URL); err != nil {
		return nil, fmt.Errorf("visit listing: %w", err)
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("fetch listing: %w", fetchErr)
	}
	return projects, nil
}

func (f *Fetcher) fetchRendered(ctx context.Context) ([]project.Project, error) {
	html, err := f.renderer.Render(ctx, f.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("render listing: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered listing: %w", err)
	}
	base, err := url.Parse(f.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse listing url: %w", err)
	}

	var projects []project.Project
	doc.Find(f.cfg.ItemSelector).Each(func(_ int, sel *goquery.Selection) {
		p, ok := f.buildProject(sel, func(href string) string {
			return resolveRef(base, href)
		})
		if ok {
			projects = append(projects, p)
		}
	})
	return projects, nil
}

// buildProject extracts one record from an item container. Missing name,
// description or anchor yield empty strings, not an error.
func (f *Fetcher) buildProject(sel *goquery.Selection, absolute func(string) string) (project.Project, bool) {
	name := strings.TrimSpace(sel.Find(f.cfg.NameSelector).First().Text())
	desc := strings.TrimSpace(sel.Find(f.cfg.DescSelector).First().Text())

	var href string
	if anchor := sel.Find("a[href]").First(); anchor.Length() > 0 {
		raw, _ := anchor.Attr("href")
		href = absolute(raw)
	}

	id, err := f.ids.NewID()
	if err != nil {
		f.logger.Error("generate project id", zap.Error(err))
		return project.Project{}, false
	}

	return project.Project{
		ID:           id,
		Name:         name,
		Description:  desc,
		URL:          href,
		Category:     project.CategoryUnsuitable,
		Status:       project.StatusUnanalyzed,
		DiscoveredAt: f.clock.Now(),
	}, true
}

func resolveRef(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
