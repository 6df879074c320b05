// Package output provides result formatting for discovery runs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/boterai/recipecrawl/internal/metrics"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds output configuration.
type Config struct {
	Format   string `json:"format" yaml:"format"`
	Pretty   bool   `json:"pretty" yaml:"pretty"`
	FilePath string `json:"file_path" yaml:"file_path"`
}

// DefaultConfig returns default output configuration.
func DefaultConfig() Config {
	return Config{
		Format: FormatJSON,
		Pretty: true,
	}
}

// URLList is the result of one discovery run.
type URLList struct {
	Site      string         `json:"site"`
	ScannedAt time.Time      `json:"scanned_at"`
	Count     int            `json:"count"`
	URLs      []string       `json:"urls"`
	Stats     *metrics.Stats `json:"stats,omitempty"`
}

// Write writes the URL list to w in the configured format.
func Write(w io.Writer, config Config, list *URLList) error {
	switch config.Format {
	case FormatText:
		for _, u := range list.URLs {
			if _, err := fmt.Fprintln(w, u); err != nil {
				return err
			}
		}
		return nil

	case FormatJSON, "":
		enc := json.NewEncoder(w)
		if config.Pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(list)

	default:
		return fmt.Errorf("unknown output format: %q", config.Format)
	}
}

// WriteResult writes the URL list to the configured file, or stdout when no
// file path is set.
func WriteResult(config Config, list *URLList) error {
	if config.FilePath == "" {
		return Write(os.Stdout, config, list)
	}

	f, err := os.Create(config.FilePath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := Write(f, config, list); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
