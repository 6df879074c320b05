package sitemap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://example.com"

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, DefaultMaxDepth)
	}
	if cfg.Fetch.SettleDelay != 2*time.Second {
		t.Errorf("SettleDelay = %v, want 2s", cfg.Fetch.SettleDelay)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.BaseURL = "https://example.com"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing base URL",
			mutate:  func(c *Config) { c.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "zero max depth",
			mutate:  func(c *Config) { c.MaxDepth = 0 },
			wantErr: true,
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Driver = "selenium" },
			wantErr: true,
		},
		{
			name:   "chromedp driver",
			mutate: func(c *Config) { c.Driver = "chromedp" },
		},
		{
			name:    "non-positive rate limit",
			mutate:  func(c *Config) { c.RateLimit.RequestsPerSecond = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `base_url: https://example.com
max_depth: 5
driver: chromedp
extra_paths:
  - /extra-sitemap.xml
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.BaseURL != "https://example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("MaxDepth = %d, want 5", cfg.MaxDepth)
	}
	if cfg.Driver != "chromedp" {
		t.Errorf("Driver = %q, want chromedp", cfg.Driver)
	}
	if len(cfg.ExtraPaths) != 1 || cfg.ExtraPaths[0] != "/extra-sitemap.xml" {
		t.Errorf("ExtraPaths = %v", cfg.ExtraPaths)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Fetch.SettleDelay != 2*time.Second {
		t.Errorf("SettleDelay = %v, want default 2s", cfg.Fetch.SettleDelay)
	}
	if cfg.RateLimit.RequestsPerSecond != 2 {
		t.Errorf("RequestsPerSecond = %v, want default 2", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"base_url": "https://example.com", "max_depth": 3}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.BaseURL != "https://example.com" || cfg.MaxDepth != 3 {
		t.Errorf("got BaseURL=%q MaxDepth=%d", cfg.BaseURL, cfg.MaxDepth)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
