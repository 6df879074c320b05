package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/boterai/recipecrawl/internal/logger"
	"github.com/boterai/recipecrawl/internal/retry"
)

// ChromedpConfig defines settings for the chromedp-backed fetcher.
type ChromedpConfig struct {
	SettleDelay time.Duration `json:"settle_delay" yaml:"settle_delay"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
	MaxRetries  int           `json:"max_retries" yaml:"max_retries"`
}

// DefaultChromedpConfig returns default chromedp fetcher configuration.
func DefaultChromedpConfig() ChromedpConfig {
	return ChromedpConfig{
		SettleDelay: 2 * time.Second,
		Timeout:     30 * time.Second,
		MaxRetries:  2,
	}
}

// ChromedpFetcher fetches pages through a caller-owned chromedp browser
// context. The context is only borrowed: the fetcher never creates or
// cancels it.
type ChromedpFetcher struct {
	browserCtx context.Context
	config     ChromedpConfig
	log        *logger.Logger
	retrier    *retry.Retrier
}

// NewChromedp creates a fetcher bound to an existing chromedp context
// (as returned by chromedp.NewContext).
func NewChromedp(browserCtx context.Context, config ChromedpConfig, log *logger.Logger) *ChromedpFetcher {
	if log == nil {
		log = logger.Global().WithComponent("fetch")
	}
	if config.SettleDelay <= 0 {
		config.SettleDelay = DefaultChromedpConfig().SettleDelay
	}
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = config.MaxRetries

	return &ChromedpFetcher{
		browserCtx: browserCtx,
		config:     config,
		log:        log,
		retrier:    retry.New(retryCfg),
	}
}

// Fetch navigates to the URL and returns the rendered page source, retrying
// transient navigation failures.
func (f *ChromedpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, err := retry.DoValue(ctx, f.retrier, func(ctx context.Context) (string, error) {
		return f.fetchOnce(ctx, url)
	})
	if err != nil {
		return "", err
	}
	return Normalize(url, html, f.log), nil
}

func (f *ChromedpFetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	runCtx, cancel := f.runContext(ctx)
	defer cancel()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(f.config.SettleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	return html, nil
}

// runContext derives the chromedp run context from the borrowed browser
// context: the navigation timeout applies, and cancelling the caller's scan
// context aborts an in-flight navigation instead of letting it run out the
// timeout.
func (f *ChromedpFetcher) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	var runCtx context.Context
	var cancel context.CancelFunc
	if f.config.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(f.browserCtx, f.config.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(f.browserCtx)
	}

	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}
