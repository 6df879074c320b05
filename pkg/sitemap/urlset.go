package sitemap

import "sort"

// URLSet is a set of absolute URL strings deduplicated by exact equality.
type URLSet map[string]struct{}

// NewURLSet creates a URLSet from the given URLs.
func NewURLSet(urls ...string) URLSet {
	s := make(URLSet, len(urls))
	for _, u := range urls {
		s[u] = struct{}{}
	}
	return s
}

// Add inserts a URL into the set.
func (s URLSet) Add(url string) {
	s[url] = struct{}{}
}

// Contains reports whether the set holds the URL.
func (s URLSet) Contains(url string) bool {
	_, ok := s[url]
	return ok
}

// Union adds every URL from other into s.
func (s URLSet) Union(other URLSet) {
	for u := range other {
		s[u] = struct{}{}
	}
}

// Len returns the number of URLs in the set.
func (s URLSet) Len() int {
	return len(s)
}

// Slice returns the URLs as a sorted slice.
func (s URLSet) Slice() []string {
	urls := make([]string, 0, len(s))
	for u := range s {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
