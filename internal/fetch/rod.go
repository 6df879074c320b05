package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/boterai/recipecrawl/internal/logger"
	"github.com/boterai/recipecrawl/internal/retry"
)

// RodConfig defines settings for the Rod-backed fetcher.
type RodConfig struct {
	// SettleDelay is the fixed wait after navigation before reading the
	// page source, allowing dynamic content and redirects to finish.
	SettleDelay time.Duration `json:"settle_delay" yaml:"settle_delay"`

	// Timeout bounds a single navigation.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of extra navigation attempts on failure.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// UserAgent overrides the browser user agent when non-empty.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Headers are extra HTTP headers sent with every navigation.
	Headers map[string]string `json:"headers" yaml:"headers"`
}

// DefaultRodConfig returns default Rod fetcher configuration.
func DefaultRodConfig() RodConfig {
	return RodConfig{
		SettleDelay: 2 * time.Second,
		Timeout:     30 * time.Second,
		MaxRetries:  2,
	}
}

// RodFetcher fetches pages through a caller-owned Rod browser session.
// The session is only borrowed: the fetcher never launches, reconfigures,
// or closes it.
type RodFetcher struct {
	browser *rod.Browser
	config  RodConfig
	log     *logger.Logger
	retrier *retry.Retrier
}

// NewRod creates a fetcher bound to an existing Rod browser.
func NewRod(browser *rod.Browser, config RodConfig, log *logger.Logger) *RodFetcher {
	if log == nil {
		log = logger.Global().WithComponent("fetch")
	}
	if config.SettleDelay <= 0 {
		config.SettleDelay = DefaultRodConfig().SettleDelay
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = config.MaxRetries

	return &RodFetcher{
		browser: browser,
		config:  config,
		log:     log,
		retrier: retry.New(retryCfg),
	}
}

// Fetch navigates to the URL and returns the rendered page source, retrying
// transient navigation failures.
func (f *RodFetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, err := retry.DoValue(ctx, f.retrier, func(ctx context.Context) (string, error) {
		return f.fetchOnce(ctx, url)
	})
	if err != nil {
		return "", err
	}
	return Normalize(url, html, f.log), nil
}

func (f *RodFetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	page, err := f.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if f.config.Timeout > 0 {
		page = page.Timeout(f.config.Timeout)
	}

	if f.config.UserAgent != "" {
		_ = proto.NetworkSetUserAgentOverride{
			UserAgent: f.config.UserAgent,
		}.Call(page)
	}

	if len(f.config.Headers) > 0 {
		networkHeaders := make(proto.NetworkHeaders)
		for k, v := range f.config.Headers {
			networkHeaders[k] = gson.New(v)
		}
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: networkHeaders}.Call(page)
	}

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("page load failed: %w", err)
	}

	time.Sleep(f.config.SettleDelay)

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page source: %w", err)
	}

	return html, nil
}
