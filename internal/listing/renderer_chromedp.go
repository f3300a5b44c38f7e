package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// RenderConfig controls the behavior of the headless renderer.
type RenderConfig struct {
	UserAgent         string
	NavigationTimeout time.Duration
}

// ChromeRenderer implements Renderer using chromedp and headless Chrome.
// It exists for listing pages that assemble their project cards with
// JavaScript, where a plain GET returns an empty shell.
type ChromeRenderer struct {
	cfg         RenderConfig
	allocator   context.Context
	allocCancel context.CancelFunc
}

// NewChromeRenderer creates a renderer backed by a shared exec allocator.
func NewChromeRenderer(cfg RenderConfig) *ChromeRenderer {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 25 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromeRenderer{
		cfg:         cfg,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}
}

// Close cancels the allocator context, shutting down the browser.
func (r *ChromeRenderer) Close() {
	r.allocCancel()
}

// Render navigates to pageURL with a headless browser and returns the fully
// rendered DOM.
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	taskCtx, taskCancel := chromedp.NewContext(r.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, r.cfg.NavigationTimeout)
	defer cancel()

	// Honor caller cancellation on top of the navigation timeout.
	go func() {
		select {
		case <-ctx.Done():
			taskCancel()
		case <-taskCtx.Done():
		}
	}()

	var html string
	actions := []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return "", fmt.Errorf("chromedp run: %w", err)
	}
	return html, nil
}
