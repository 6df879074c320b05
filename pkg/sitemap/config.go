package sitemap

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds scan configuration for a discovery run.
type Config struct {
	// Base URL of the site to scan
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Maximum recursion depth into nested sitemap indexes
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// Extra sitemap paths or URLs to probe beyond the common table
	ExtraPaths []string `json:"extra_paths" yaml:"extra_paths"`

	// Restrict results to this domain ("" keeps everything)
	Domain string `json:"domain" yaml:"domain"`

	// Browser driver: "rod" or "chromedp"
	Driver string `json:"driver" yaml:"driver"`

	// Fetch settings
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`

	// Rate limiting
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`

	// Verbose logging
	Verbose bool `json:"verbose" yaml:"verbose"`

	// Debug mode
	Debug bool `json:"debug" yaml:"debug"`
}

// FetchConfig holds browser fetch settings shared by both drivers.
type FetchConfig struct {
	// Fixed wait after navigation before reading the page source
	SettleDelay time.Duration `json:"settle_delay" yaml:"settle_delay"`

	// Navigation timeout
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Extra navigation attempts on transient failure
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// User agent override
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Extra headers sent with every navigation
	Headers map[string]string `json:"headers" yaml:"headers"`
}

// RateLimitConfig holds politeness settings between sitemap fetches.
type RateLimitConfig struct {
	RequestsPerSecond float64       `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `json:"burst" yaml:"burst"`
	DelayBetween      time.Duration `json:"delay_between" yaml:"delay_between"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth: DefaultMaxDepth,
		Driver:   "rod",
		Fetch: FetchConfig{
			SettleDelay: 2 * time.Second,
			Timeout:     30 * time.Second,
			MaxRetries:  2,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             1,
		},
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}

	if c.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1")
	}

	if c.Driver != "rod" && c.Driver != "chromedp" {
		return fmt.Errorf("driver must be rod or chromedp, got %q", c.Driver)
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}

	return nil
}
