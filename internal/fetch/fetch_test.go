package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/boterai/recipecrawl/internal/logger"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/recipes/1</loc></url>
</urlset>`

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.FatalLevel,
		Output: io.Discard,
	})
}

func gzipBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(text)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// widen renders raw bytes the way a browser page source does: one codepoint
// per byte.
func widen(raw []byte) string {
	var sb strings.Builder
	for _, b := range raw {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

func TestNormalize_GzipRawBytes(t *testing.T) {
	content := string(gzipBytes(t, sampleXML))

	got := Normalize("https://example.com/sitemap.xml.gz", content, testLogger())

	if got != sampleXML {
		t.Errorf("Normalize() did not decompress raw gzip bytes")
	}
}

func TestNormalize_GzipWidenedText(t *testing.T) {
	content := widen(gzipBytes(t, sampleXML))

	got := Normalize("https://example.com/sitemap.xml.gz", content, testLogger())

	if got != sampleXML {
		t.Errorf("Normalize() did not decompress byte-per-codepoint gzip text")
	}
}

func TestNormalize_GzipOnlyForGzSuffix(t *testing.T) {
	content := string(gzipBytes(t, sampleXML))

	got := Normalize("https://example.com/sitemap.xml", content, testLogger())

	if got != content {
		t.Errorf("Normalize() touched content for a non-.gz URL")
	}
}

func TestNormalize_GzSuffixWithoutMagic(t *testing.T) {
	got := Normalize("https://example.com/sitemap.xml.gz", sampleXML, testLogger())

	if got != sampleXML {
		t.Errorf("Normalize() altered plain XML served from a .gz URL")
	}
}

func TestNormalize_CorruptGzipFallsBackToRaw(t *testing.T) {
	content := "\x1f\x8b" + "definitely not a gzip stream"

	got := Normalize("https://example.com/sitemap.xml.gz", content, testLogger())

	if got != content {
		t.Errorf("Normalize() = %q, want raw content back on decompression failure", got)
	}
}

func TestChromedpFetcher_ScanContextAbortsNavigation(t *testing.T) {
	f := NewChromedp(context.Background(), ChromedpConfig{
		Timeout: time.Minute,
	}, testLogger())

	scanCtx, cancelScan := context.WithCancel(context.Background())
	runCtx, cleanup := f.runContext(scanCtx)
	defer cleanup()

	if runCtx.Err() != nil {
		t.Fatal("run context cancelled before the scan context")
	}

	cancelScan()

	select {
	case <-runCtx.Done():
	case <-time.After(time.Second):
		t.Error("run context not cancelled after scan context cancellation")
	}
}

func TestChromedpFetcher_CleanupReleasesRunContext(t *testing.T) {
	f := NewChromedp(context.Background(), ChromedpConfig{
		Timeout: time.Minute,
	}, testLogger())

	runCtx, cleanup := f.runContext(context.Background())
	cleanup()

	if runCtx.Err() == nil {
		t.Error("run context still live after cleanup")
	}
}

func TestNormalize_PlainContentUntouched(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		content string
	}{
		{
			name:    "xml sitemap",
			url:     "https://example.com/sitemap.xml",
			content: sampleXML,
		},
		{
			name:    "html page",
			url:     "https://example.com/sitemap.html",
			content: "<html><body><a href='/r/1'>One</a></body></html>",
		},
		{
			name:    "non-xml text",
			url:     "https://example.com/sitemap.xml",
			content: "404 page not found",
		},
		{
			name:    "empty",
			url:     "https://example.com/sitemap.xml",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.url, tt.content, testLogger()); got != tt.content {
				t.Errorf("Normalize() = %q, want input unchanged", got)
			}
		})
	}
}
