// Package metrics provides counters for a sitemap discovery run.
package metrics

import (
	"sync/atomic"
	"time"
)

// Collector aggregates scan counters. All methods are safe for concurrent
// use, though a scan itself is sequential.
type Collector struct {
	sitemapsFetched atomic.Int64
	fetchErrors     atomic.Int64
	htmlSitemaps    atomic.Int64
	indexDocuments  atomic.Int64
	urlsetDocuments atomic.Int64
	urlsDiscovered  atomic.Int64

	startTime time.Time
}

// New creates a new metrics collector.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// RecordFetch records a sitemap fetch attempt.
func (c *Collector) RecordFetch() {
	c.sitemapsFetched.Add(1)
}

// RecordFetchError records a failed fetch.
func (c *Collector) RecordFetchError() {
	c.fetchErrors.Add(1)
}

// RecordDocument records a classified sitemap document by kind name.
func (c *Collector) RecordDocument(kind string) {
	switch kind {
	case "html":
		c.htmlSitemaps.Add(1)
	case "index":
		c.indexDocuments.Add(1)
	case "urlset":
		c.urlsetDocuments.Add(1)
	}
}

// RecordURLs records discovered page URLs.
func (c *Collector) RecordURLs(n int) {
	c.urlsDiscovered.Add(int64(n))
}

// Stats is a point-in-time snapshot of scan counters.
type Stats struct {
	SitemapsFetched int64         `json:"sitemaps_fetched"`
	FetchErrors     int64         `json:"fetch_errors"`
	HTMLSitemaps    int64         `json:"html_sitemaps"`
	IndexDocuments  int64         `json:"index_documents"`
	URLSetDocuments int64         `json:"urlset_documents"`
	URLsDiscovered  int64         `json:"urls_discovered"`
	Elapsed         time.Duration `json:"elapsed"`
}

// Snapshot returns the current counter values.
func (c *Collector) Snapshot() Stats {
	return Stats{
		SitemapsFetched: c.sitemapsFetched.Load(),
		FetchErrors:     c.fetchErrors.Load(),
		HTMLSitemaps:    c.htmlSitemaps.Load(),
		IndexDocuments:  c.indexDocuments.Load(),
		URLSetDocuments: c.urlsetDocuments.Load(),
		URLsDiscovered:  c.urlsDiscovered.Load(),
		Elapsed:         time.Since(c.startTime),
	}
}

// Reset zeroes all counters and restarts the clock.
func (c *Collector) Reset() {
	c.sitemapsFetched.Store(0)
	c.fetchErrors.Store(0)
	c.htmlSitemaps.Store(0)
	c.indexDocuments.Store(0)
	c.urlsetDocuments.Store(0)
	c.urlsDiscovered.Store(0)
	c.startTime = time.Now()
}
