// Package state provides bookkeeping for URLs discovered across scans.
package state

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Deduplicator tracks discovered page URLs across multiple discovery runs
// using a Bloom filter with an exact map behind it. The Bloom filter makes
// the common "never seen" case a fast negative; the map resolves potential
// false positives and backs All().
type Deduplicator struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
	exact  map[string]struct{}
	count  int
}

// NewDeduplicator creates a deduplicator sized for the expected URL volume.
func NewDeduplicator(estimatedItems int) *Deduplicator {
	if estimatedItems < 1000 {
		estimatedItems = 1000
	}

	return &Deduplicator{
		filter: bloom.NewWithEstimates(uint(estimatedItems), 0.001),
		exact:  make(map[string]struct{}),
	}
}

// Add records a URL. Adding an already-known URL is a no-op.
func (d *Deduplicator) Add(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.add(url)
}

// AddBatch records multiple URLs at once and returns how many were new.
func (d *Deduplicator) AddBatch(urls []string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	added := 0
	for _, url := range urls {
		if d.add(url) {
			added++
		}
	}
	return added
}

func (d *Deduplicator) add(url string) bool {
	if _, exists := d.exact[url]; exists {
		return false
	}
	d.filter.AddString(url)
	d.exact[url] = struct{}{}
	d.count++
	return true
}

// HasSeen reports whether a URL was recorded before.
func (d *Deduplicator) HasSeen(url string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.filter.TestString(url) {
		return false
	}
	_, exists := d.exact[url]
	return exists
}

// Count returns the number of unique URLs recorded.
func (d *Deduplicator) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.count
}

// All returns every recorded URL, in no particular order.
func (d *Deduplicator) All() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	urls := make([]string, 0, len(d.exact))
	for url := range d.exact {
		urls = append(urls, url)
	}
	return urls
}

// Reset forgets all recorded URLs.
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.filter.ClearAll()
	d.exact = make(map[string]struct{})
	d.count = 0
}
