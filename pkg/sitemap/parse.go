package sitemap

import (
	"encoding/xml"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/boterai/recipecrawl/internal/logger"
)

// sitemapNS is the standard sitemap XML namespace.
const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Namespaced documents. Some sites omit the namespace declaration, so each
// parse retries with the namespace-free structs below when the namespaced
// query yields nothing.
type nsIndexDoc struct {
	XMLName  xml.Name `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 loc"`
	} `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 sitemap"`
}

type nsURLSetDoc struct {
	XMLName xml.Name `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []struct {
		Loc string `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 loc"`
	} `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 url"`
}

type plainIndexDoc struct {
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

type plainURLSetDoc struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// ParseIndex extracts nested sitemap URLs from a sitemap index document, in
// document order. Parse errors are logged and yield an empty list; duplicate
// entries across calls are resolved by the scanner's visited set, not here.
func ParseIndex(content string, log *logger.Logger) []string {
	if log == nil {
		log = logger.Global()
	}

	entries, err := parseIndexEntries(content)
	if err != nil {
		log.WithError(err).Error("Failed to parse XML sitemap index")
		return nil
	}

	log.Debugf("Found %d sitemaps in index", len(entries))
	return entries
}

// parseIndexEntries runs the namespaced query first, then retries without a
// namespace when it finds nothing.
func parseIndexEntries(content string) ([]string, error) {
	data := []byte(content)

	var nsDoc nsIndexDoc
	nsErr := xml.Unmarshal(data, &nsDoc)
	if nsErr == nil {
		entries := make([]string, 0, len(nsDoc.Sitemaps))
		for _, sm := range nsDoc.Sitemaps {
			if loc := strings.TrimSpace(sm.Loc); loc != "" {
				entries = append(entries, loc)
			}
		}
		if len(entries) > 0 {
			return entries, nil
		}
	}

	var plainDoc plainIndexDoc
	if err := xml.Unmarshal(data, &plainDoc); err != nil {
		return nil, err
	}
	entries := make([]string, 0, len(plainDoc.Sitemaps))
	for _, sm := range plainDoc.Sitemaps {
		if loc := strings.TrimSpace(sm.Loc); loc != "" {
			entries = append(entries, loc)
		}
	}
	return entries, nil
}

// ParseURLSet extracts page URLs from a leaf XML sitemap. Parse errors are
// logged and yield an empty set.
func ParseURLSet(content string, log *logger.Logger) URLSet {
	if log == nil {
		log = logger.Global()
	}

	urls, err := parseURLSetEntries(content)
	if err != nil {
		log.WithError(err).Error("Failed to parse XML sitemap")
		return URLSet{}
	}

	log.Debugf("Extracted %d URLs from sitemap", urls.Len())
	return urls
}

func parseURLSetEntries(content string) (URLSet, error) {
	data := []byte(content)
	urls := URLSet{}

	var nsDoc nsURLSetDoc
	nsErr := xml.Unmarshal(data, &nsDoc)
	if nsErr == nil {
		for _, u := range nsDoc.URLs {
			if loc := strings.TrimSpace(u.Loc); loc != "" {
				urls.Add(loc)
			}
		}
		if urls.Len() > 0 {
			return urls, nil
		}
	}

	var plainDoc plainURLSetDoc
	if err := xml.Unmarshal(data, &plainDoc); err != nil {
		return nil, err
	}
	for _, u := range plainDoc.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			urls.Add(loc)
		}
	}
	return urls, nil
}

// ParseHTMLSitemap extracts absolute page URLs from a human-readable HTML
// sitemap page. Fragment-only and javascript: hrefs are skipped, relative
// hrefs are resolved against the page's own URL, and only http/https results
// are kept. Parse errors are logged and yield an empty set.
func ParseHTMLSitemap(content, pageURL string, log *logger.Logger) URLSet {
	if log == nil {
		log = logger.Global()
	}

	urls := URLSet{}

	base, err := url.Parse(pageURL)
	if err != nil {
		log.WithError(err).WithURL(pageURL).Error("Invalid HTML sitemap URL")
		return urls
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		log.WithError(err).WithURL(pageURL).Error("Failed to parse HTML sitemap")
		return urls
	}

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		if strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		urls.Add(resolved.String())
	})

	log.Debugf("Extracted %d URLs from HTML sitemap", urls.Len())
	return urls
}
