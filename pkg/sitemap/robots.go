package sitemap

import (
	"bufio"
	"regexp"
	"strings"
)

var (
	preWrapRe  = regexp.MustCompile(`(?is)<pre[^>]*>(.*?)</pre>`)
	bodyWrapRe = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)
)

// ExtractRobotsSitemaps pulls sitemap URLs out of a robots.txt body, in the
// order they appear. Browser rendering sometimes wraps the plain text in
// <pre> or <body> tags; either wrapper is stripped before line processing.
func ExtractRobotsSitemaps(robotsText string) []string {
	lower := strings.ToLower(robotsText)
	if strings.Contains(lower, "<pre") {
		if m := preWrapRe.FindStringSubmatch(robotsText); m != nil {
			robotsText = m[1]
		}
	} else if strings.Contains(lower, "<body") {
		if m := bodyWrapRe.FindStringSubmatch(robotsText); m != nil {
			robotsText = m[1]
		}
	}

	var sitemaps []string
	scanner := bufio.NewScanner(strings.NewReader(robotsText))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			continue
		}
		if value := strings.TrimSpace(line[len("sitemap:"):]); value != "" {
			sitemaps = append(sitemaps, value)
		}
	}
	return sitemaps
}
