// Package sitemap discovers page URLs through a site's sitemap
// infrastructure: XML sitemap trees, HTML sitemap pages, and sitemap
// references in robots.txt.
//
// A Scanner borrows a browser-backed fetch.Fetcher owned by the caller and
// walks the sitemap graph sequentially, deduplicating sitemap fetches with a
// per-run visited set and bounding index recursion by a configurable depth.
// Every failure mode inside fetching, classification, and parsing degrades
// to "this branch contributes no URLs"; no error escapes the public entry
// points.
package sitemap

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/boterai/recipecrawl/internal/fetch"
	"github.com/boterai/recipecrawl/internal/logger"
	"github.com/boterai/recipecrawl/internal/metrics"
	"github.com/boterai/recipecrawl/internal/ratelimit"
)

// DefaultMaxDepth bounds recursion into nested sitemap indexes.
const DefaultMaxDepth = 10

// Scanner discovers page URLs via a site's sitemaps.
//
// A Scanner is bound to one site and one fetcher session and is not safe for
// concurrent use: the borrowed browser session cannot serve overlapping
// navigations, so one logical scan owns it for its full duration.
type Scanner struct {
	baseURL  string
	fetcher  fetch.Fetcher
	maxDepth int
	log      *logger.Logger
	limiter  *ratelimit.Limiter
	metrics  *metrics.Collector

	// visited tracks sitemap URLs already fetched in the current
	// discovery run, guarding against diamonds and cycles in the index
	// graph.
	visited map[string]struct{}
}

// New creates a Scanner for the site rooted at baseURL, fetching through the
// caller-owned fetcher. The fetcher session is only borrowed; the Scanner
// never creates, reconfigures, or disposes it.
func New(baseURL string, fetcher fetch.Fetcher, opts ...Option) (*Scanner, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	s := &Scanner{
		baseURL:  strings.TrimRight(baseURL, "/"),
		fetcher:  fetcher,
		maxDepth: DefaultMaxDepth,
		log:      logger.Global().WithComponent("sitemap"),
		visited:  make(map[string]struct{}),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// BaseURL returns the site root the scanner is bound to.
func (s *Scanner) BaseURL() string {
	return s.baseURL
}

// DiscoverAndScanAll probes every plausible sitemap entry point for the
// site: the common sitemap paths, any caller-supplied extras, and every
// sitemap advertised in robots.txt. All discovered URL sets are unioned. A
// candidate that yields nothing is not an error; it simply contributes no
// URLs.
func (s *Scanner) DiscoverAndScanAll(ctx context.Context, customPaths ...string) URLSet {
	s.visited = make(map[string]struct{})

	paths := make([]string, 0, len(CommonSitemapPaths)+len(customPaths))
	paths = append(paths, CommonSitemapPaths...)
	paths = append(paths, customPaths...)

	robotsSitemaps := s.sitemapsFromRobots(ctx)
	if len(robotsSitemaps) > 0 {
		s.log.Infof("Found %d sitemaps in robots.txt", len(robotsSitemaps))
		paths = append(paths, robotsSitemaps...)
	}

	// Candidate dedup is separate from the visited set: the visited set
	// records scan history, this collapses the entry-point list itself.
	candidates := URLSet{}
	for _, p := range paths {
		if abs := s.absoluteCandidate(p); abs != "" {
			candidates.Add(abs)
		}
	}

	s.log.Infof("Probing %d candidate sitemaps", candidates.Len())

	all := URLSet{}
	for _, candidate := range candidates.Slice() {
		urls := s.ScanSitemap(ctx, candidate, 0)
		if urls.Len() > 0 {
			s.log.WithURL(candidate).Infof("Candidate yielded %d URLs", urls.Len())
			all.Union(urls)
		}
	}

	return all
}

// ScanSitemap recursively scans one sitemap, which may be an index, a URL
// set, or an HTML sitemap page. An empty sitemapURL defaults to
// {base}/sitemap.xml. Depth starts at 0 for the root and increments by one
// per index-to-child hop; branches beyond the depth bound return empty.
func (s *Scanner) ScanSitemap(ctx context.Context, sitemapURL string, depth int) URLSet {
	if sitemapURL == "" {
		sitemapURL = s.baseURL + "/sitemap.xml"
	}

	if depth > s.maxDepth {
		s.log.WithURL(sitemapURL).Warnf("Max recursion depth (%d) reached", s.maxDepth)
		return URLSet{}
	}

	if _, seen := s.visited[sitemapURL]; seen {
		s.log.WithURL(sitemapURL).Debug("Sitemap already processed")
		return URLSet{}
	}
	s.visited[sitemapURL] = struct{}{}

	content := s.fetchContent(ctx, sitemapURL)
	if content == "" {
		return URLSet{}
	}

	kind := Classify(content)
	switch kind {
	case KindHTML:
		urls := ParseHTMLSitemap(content, sitemapURL, s.log)
		s.recordDocument(kind, urls.Len())
		s.log.SitemapEvent(sitemapURL, depth, kind.String(), urls.Len())
		return urls

	case KindIndex:
		children := ParseIndex(content, s.log)
		s.recordDocument(kind, 0)
		s.log.SitemapEvent(sitemapURL, depth, kind.String(), 0)

		all := URLSet{}
		for i, child := range children {
			s.log.WithDepth(depth).Debugf("Nested sitemap %d/%d: %s", i+1, len(children), child)
			all.Union(s.ScanSitemap(ctx, child, depth+1))
		}
		return all

	case KindURLSet:
		urls := ParseURLSet(content, s.log)
		s.recordDocument(kind, urls.Len())
		s.log.SitemapEvent(sitemapURL, depth, kind.String(), urls.Len())
		return urls

	default:
		return URLSet{}
	}
}

// Reset clears the visited set without touching configuration, so the same
// Scanner can run a second, independent discovery pass.
func (s *Scanner) Reset() {
	s.visited = make(map[string]struct{})
	s.log.Info("Scanner state reset")
}

// fetchContent retrieves a sitemap through the borrowed session. Transport
// failures are logged and collapse to empty content.
func (s *Scanner) fetchContent(ctx context.Context, sitemapURL string) string {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			s.log.FetchError(err, sitemapURL)
			return ""
		}
	}

	if s.metrics != nil {
		s.metrics.RecordFetch()
	}

	content, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		s.log.FetchError(err, sitemapURL)
		if s.metrics != nil {
			s.metrics.RecordFetchError()
		}
		return ""
	}
	return content
}

// sitemapsFromRobots fetches /robots.txt and extracts Sitemap: directives.
// Any failure is logged as a warning and contributes zero sitemap URLs.
func (s *Scanner) sitemapsFromRobots(ctx context.Context) []string {
	robotsURL := s.baseURL + "/robots.txt"
	s.log.WithURL(robotsURL).Debug("Checking robots.txt for sitemaps")

	content, err := s.fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		s.log.WithError(err).WithURL(robotsURL).Warn("Failed to fetch robots.txt")
		return nil
	}

	sitemaps := ExtractRobotsSitemaps(content)
	for _, sm := range sitemaps {
		s.log.WithURL(sm).Debug("Sitemap advertised in robots.txt")
	}
	return sitemaps
}

// absoluteCandidate normalizes a candidate entry: absolute URLs are kept
// as-is, relative paths are joined against the base URL.
func (s *Scanner) absoluteCandidate(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	base, err := url.Parse(s.baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(path)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func (s *Scanner) recordDocument(kind Kind, urls int) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordDocument(kind.String())
	if urls > 0 {
		s.metrics.RecordURLs(urls)
	}
}

// FilterByDomain returns only the URLs whose host equals domain, comparing
// with any leading "www." stripped from both sides. Unparseable URLs are
// dropped.
func FilterByDomain(urls URLSet, domain string) URLSet {
	domain = strings.TrimPrefix(domain, "www.")

	filtered := URLSet{}
	for u := range urls {
		parsed, err := url.Parse(u)
		if err != nil {
			continue
		}
		host := strings.TrimPrefix(parsed.Hostname(), "www.")
		if host == domain {
			filtered.Add(u)
		}
	}
	return filtered
}
