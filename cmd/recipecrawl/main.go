package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"

	"github.com/boterai/recipecrawl/internal/fetch"
	"github.com/boterai/recipecrawl/internal/logger"
	"github.com/boterai/recipecrawl/internal/metrics"
	"github.com/boterai/recipecrawl/internal/output"
	"github.com/boterai/recipecrawl/internal/ratelimit"
	"github.com/boterai/recipecrawl/internal/shutdown"
	"github.com/boterai/recipecrawl/internal/state"
	"github.com/boterai/recipecrawl/pkg/sitemap"
)

var (
	version = "1.0.0"

	// Global flags
	configFile string
	verbose    bool
	debug      bool

	// Discover flags
	maxDepth    int
	extraPaths  []string
	domain      string
	driver      string
	settleDelay time.Duration
	timeout     time.Duration
	retries     int
	rateLimit   float64
	burst       int
	delay       time.Duration
	userAgent   string
	headers     []string
	outputFile  string
	format      string
	noPretty    bool
	storePath   string
	headful     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "recipecrawl",
		Short: "recipecrawl - sitemap discovery for recipe sites",
		Long: `recipecrawl discovers every page URL reachable through a site's sitemap
infrastructure: XML sitemap trees, HTML sitemap pages, and sitemap references
in robots.txt. The resulting URL list feeds the per-site recipe extractors.`,
		Version: version,
	}

	discoverCmd := &cobra.Command{
		Use:   "discover [base-url]",
		Short: "Discover all sitemap URLs for a site",
		Long:  "Probe the common sitemap locations plus robots.txt and return every page URL found.",
		Args:  cobra.ExactArgs(1),
		RunE:  runDiscover,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug mode")

	discoverCmd.Flags().IntVarP(&maxDepth, "max-depth", "d", sitemap.DefaultMaxDepth, "Maximum sitemap index recursion depth")
	discoverCmd.Flags().StringArrayVar(&extraPaths, "path", nil, "Extra sitemap path or URL to probe (repeatable)")
	discoverCmd.Flags().StringVar(&domain, "domain", "", "Keep only URLs on this domain (default: base URL host)")
	discoverCmd.Flags().StringVar(&driver, "driver", "rod", "Browser driver (rod, chromedp)")
	discoverCmd.Flags().DurationVar(&settleDelay, "settle", 2*time.Second, "Settle delay after navigation")
	discoverCmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Navigation timeout")
	discoverCmd.Flags().IntVar(&retries, "retries", 2, "Extra navigation attempts on failure")
	discoverCmd.Flags().Float64VarP(&rateLimit, "rate-limit", "r", 2, "Sitemap fetches per second")
	discoverCmd.Flags().IntVar(&burst, "burst", 1, "Rate limit burst")
	discoverCmd.Flags().DurationVar(&delay, "delay", 0, "Fixed delay between sitemap fetches")
	discoverCmd.Flags().StringVar(&userAgent, "user-agent", "", "User agent override")
	discoverCmd.Flags().StringArrayVar(&headers, "header", nil, "Extra header as key=value (repeatable)")
	discoverCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	discoverCmd.Flags().StringVar(&format, "format", output.FormatJSON, "Output format (json, text)")
	discoverCmd.Flags().BoolVar(&noPretty, "no-pretty", false, "Disable pretty-printed JSON")
	discoverCmd.Flags().StringVar(&storePath, "store", "", "BoltDB file for persisting discovered URLs")
	discoverCmd.Flags().BoolVar(&headful, "headful", false, "Run the browser with a visible window")

	rootCmd.AddCommand(discoverCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := setupLogger(cfg)
	log.Infof("Starting sitemap discovery for %s", cfg.BaseURL)

	fetcher, cleanup, err := buildFetcher(cfg, log)
	if err != nil {
		return err
	}

	// An interrupt must close the headless browser, not just kill the
	// process; the scan runs off the handler's context so Ctrl-C also
	// stops pending navigations.
	sd := shutdown.New(10 * time.Second)
	sd.RegisterFunc("browser", cleanup)
	sd.Listen()
	defer sd.Shutdown()

	limiter := ratelimit.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	if cfg.RateLimit.DelayBetween > 0 {
		limiter.SetDelay(cfg.RateLimit.DelayBetween)
	}

	collector := metrics.New()

	scanner, err := sitemap.New(cfg.BaseURL, fetcher,
		sitemap.WithMaxDepth(cfg.MaxDepth),
		sitemap.WithLogger(log.WithComponent("sitemap")),
		sitemap.WithLimiter(limiter),
		sitemap.WithMetrics(collector),
	)
	if err != nil {
		return fmt.Errorf("failed to create scanner: %w", err)
	}

	urls := scanner.DiscoverAndScanAll(sd.Context(), cfg.ExtraPaths...)

	if cfg.Domain != "" {
		before := urls.Len()
		urls = sitemap.FilterByDomain(urls, cfg.Domain)
		log.Infof("Domain filter %q kept %d of %d URLs", cfg.Domain, urls.Len(), before)
	}

	if storePath != "" {
		if err := persistURLs(storePath, cfg.BaseURL, urls, log); err != nil {
			log.WithError(err).Warn("Failed to persist discovered URLs")
		}
	}

	stats := collector.Snapshot()
	list := &output.URLList{
		Site:      cfg.BaseURL,
		ScannedAt: time.Now().UTC(),
		Count:     urls.Len(),
		URLs:      urls.Slice(),
		Stats:     &stats,
	}

	outCfg := output.Config{
		Format:   format,
		Pretty:   !noPretty,
		FilePath: outputFile,
	}
	if err := output.WriteResult(outCfg, list); err != nil {
		return err
	}

	log.Infof("Discovered %d URLs (%d sitemaps fetched, %d fetch errors, %s elapsed)",
		urls.Len(), stats.SitemapsFetched, stats.FetchErrors, stats.Elapsed.Round(time.Millisecond))

	return nil
}

// buildConfig merges the config file, defaults, and command-line flags.
func buildConfig(cmd *cobra.Command, baseURL string) (*sitemap.Config, error) {
	cfg := sitemap.DefaultConfig()
	if configFile != "" {
		loaded, err := sitemap.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.BaseURL = baseURL
	cfg.Verbose = cfg.Verbose || verbose
	cfg.Debug = cfg.Debug || debug

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if flags.Changed("path") {
		cfg.ExtraPaths = append(cfg.ExtraPaths, extraPaths...)
	}
	if flags.Changed("domain") {
		cfg.Domain = domain
	} else if cfg.Domain == "" {
		if u, err := url.Parse(baseURL); err == nil {
			cfg.Domain = u.Hostname()
		}
	}
	if flags.Changed("driver") {
		cfg.Driver = driver
	}
	if flags.Changed("settle") {
		cfg.Fetch.SettleDelay = settleDelay
	}
	if flags.Changed("timeout") {
		cfg.Fetch.Timeout = timeout
	}
	if flags.Changed("retries") {
		cfg.Fetch.MaxRetries = retries
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit.RequestsPerSecond = rateLimit
	}
	if flags.Changed("burst") {
		cfg.RateLimit.Burst = burst
	}
	if flags.Changed("delay") {
		cfg.RateLimit.DelayBetween = delay
	}
	if flags.Changed("user-agent") {
		cfg.Fetch.UserAgent = userAgent
	}
	for _, h := range headers {
		parts := strings.SplitN(h, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid header %q, expected key=value", h)
		}
		if cfg.Fetch.Headers == nil {
			cfg.Fetch.Headers = make(map[string]string)
		}
		cfg.Fetch.Headers[parts[0]] = parts[1]
	}

	return cfg, nil
}

func setupLogger(cfg *sitemap.Config) *logger.Logger {
	level := logger.InfoLevel
	if cfg.Debug {
		level = logger.DebugLevel
	} else if !cfg.Verbose {
		level = logger.WarnLevel
	}

	log := logger.New(logger.Config{
		Level:     level,
		Pretty:    true,
		Component: "cli",
	})
	logger.SetGlobal(log)
	return log
}

// buildFetcher constructs the selected browser driver session. The CLI owns
// the session lifecycle; the scanner only borrows it through the Fetcher.
func buildFetcher(cfg *sitemap.Config, log *logger.Logger) (fetch.Fetcher, func(), error) {
	fetchLog := log.WithComponent("fetch")

	switch cfg.Driver {
	case "chromedp":
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", !headful),
			chromedp.Flag("disable-gpu", true),
		)
		if cfg.Fetch.UserAgent != "" {
			opts = append(opts, chromedp.UserAgent(cfg.Fetch.UserAgent))
		}
		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
		browserCtx, browserCancel := chromedp.NewContext(allocCtx)

		fetcher := fetch.NewChromedp(browserCtx, fetch.ChromedpConfig{
			SettleDelay: cfg.Fetch.SettleDelay,
			Timeout:     cfg.Fetch.Timeout,
			MaxRetries:  cfg.Fetch.MaxRetries,
		}, fetchLog)

		cleanup := func() {
			browserCancel()
			allocCancel()
		}
		return fetcher, cleanup, nil

	default:
		l := launcher.New().Headless(!headful)
		controlURL, err := l.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to launch browser: %w", err)
		}

		browser := rod.New().ControlURL(controlURL)
		if err := browser.Connect(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to browser: %w", err)
		}

		fetcher := fetch.NewRod(browser, fetch.RodConfig{
			SettleDelay: cfg.Fetch.SettleDelay,
			Timeout:     cfg.Fetch.Timeout,
			MaxRetries:  cfg.Fetch.MaxRetries,
			UserAgent:   cfg.Fetch.UserAgent,
			Headers:     cfg.Fetch.Headers,
		}, fetchLog)

		cleanup := func() {
			_ = browser.Close()
		}
		return fetcher, cleanup, nil
	}
}

// persistURLs merges the discovered URLs into the BoltDB store and reports
// how many were new since the last run.
func persistURLs(path, site string, urls sitemap.URLSet, log *logger.Logger) error {
	store, err := state.OpenURLStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	added, err := store.Merge(site, urls.Slice())
	if err != nil {
		return err
	}

	total, err := store.Count(site)
	if err != nil {
		return err
	}

	log.Infof("Store updated: %d new URLs, %d total for %s", added, total, site)
	return nil
}
