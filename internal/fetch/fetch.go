// Package fetch provides browser-backed transport for sitemap retrieval.
//
// The scanner borrows an already-running automation session through the
// Fetcher interface; it never launches or closes the underlying browser.
package fetch

import (
	"compress/gzip"
	"context"
	"io"
	"strings"

	"github.com/boterai/recipecrawl/internal/logger"
)

// gzipMagic is the two-byte prefix of a gzip stream.
const gzipMagic = "\x1f\x8b"

// Fetcher retrieves the rendered text content of a URL.
//
// Implementations navigate an interactive browser session to the URL, wait a
// short settle delay for client-side rendering and redirects, then read back
// the page source. An error or empty result means the URL contributed no
// content; callers must treat that as a non-fatal zero contribution.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Normalize applies post-fetch fixups to rendered sitemap content.
//
// If the URL names a compressed sitemap and the browser handed back raw gzip
// bytes instead of transparently decompressing them, the content is inflated
// here. Decompression failures fall back to the raw text with a warning. A
// payload that does not start like XML is also flagged, since downstream
// classification will most likely yield nothing for it.
func Normalize(url, content string, log *logger.Logger) string {
	if log == nil {
		log = logger.Global()
	}

	if strings.HasSuffix(url, ".gz") && strings.HasPrefix(content, gzipMagic) {
		inflated, err := gunzipText(content)
		if err != nil {
			log.WithURL(url).WithError(err).Warn("Failed to decompress gzip sitemap, using raw content")
		} else {
			log.WithURL(url).Debug("Decompressed gzip sitemap")
			content = inflated
		}
	}

	trimmed := strings.TrimSpace(content)
	if trimmed != "" && !strings.HasPrefix(trimmed, "<?xml") && !strings.HasPrefix(trimmed, "<") {
		log.WithURL(url).Warnf("Content does not look like XML: %.80s", trimmed)
	}

	return content
}

// gunzipText inflates gzip content that arrived as browser-rendered text.
// Rendered text carries each raw byte as a codepoint below 0x100, so the
// string is first narrowed back to bytes before inflating.
func gunzipText(content string) (string, error) {
	raw := make([]byte, 0, len(content))
	for _, r := range content {
		if r > 0xFF {
			// Not a byte-per-codepoint rendering; try the raw string bytes.
			raw = []byte(content)
			break
		}
		raw = append(raw, byte(r))
	}

	zr, err := gzip.NewReader(strings.NewReader(string(raw)))
	if err != nil {
		return "", err
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
