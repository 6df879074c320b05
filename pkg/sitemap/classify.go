package sitemap

import "strings"

// Kind is the detected format of a fetched sitemap document. The recursive
// scanner dispatches on this single tagged value instead of re-sniffing the
// content at each decision point.
type Kind int

// Document kinds.
const (
	// KindEmpty means no usable content was retrieved.
	KindEmpty Kind = iota
	// KindHTML is a human-readable sitemap page containing anchor links.
	KindHTML
	// KindIndex is an XML sitemap index pointing at nested sitemaps.
	KindIndex
	// KindURLSet is a leaf XML sitemap listing page URLs directly.
	KindURLSet
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindIndex:
		return "index"
	case KindURLSet:
		return "urlset"
	default:
		return "empty"
	}
}

// htmlMarkers identify browser-facing HTML documents. The check runs before
// any XML parsing is attempted, since HTML sitemaps are rarely well-formed
// XML.
var htmlMarkers = []string{
	"<!doctype html",
	"<html",
	"<head>",
	"<body>",
	"<div",
	"<table",
}

// Classify determines the format of fetched sitemap content. It is a pure
// function of the text: repeated calls on the same input always agree.
func Classify(content string) Kind {
	if strings.TrimSpace(content) == "" {
		return KindEmpty
	}
	if isHTMLSitemap(content) {
		return KindHTML
	}
	if isSitemapIndex(content) {
		return KindIndex
	}
	return KindURLSet
}

// isHTMLSitemap reports whether the content contains any of the HTML
// markers, case-insensitively.
func isHTMLSitemap(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))
	for _, marker := range htmlMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// isSitemapIndex reports whether XML content is a sitemap index: either it
// carries the <sitemapindex> root marker, or the parsed tree holds at least
// one sitemap element (namespaced or not). Unparseable XML is not an index.
func isSitemapIndex(content string) bool {
	if strings.Contains(strings.ToLower(content), "<sitemapindex") {
		return true
	}

	entries, err := parseIndexEntries(content)
	if err != nil {
		return false
	}
	return len(entries) > 0
}
