package sitemap

// CommonSitemapPaths are the well-known sitemap locations probed by
// DiscoverAndScanAll before and alongside anything advertised in robots.txt.
// The recipe-specific entries cover the WordPress sitemap plugins most
// cooking sites use.
var CommonSitemapPaths = []string{
	"/sitemap.xml",
	"/sitemap.xml.gz",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
	"/post-sitemap.xml",
	"/page-sitemap.xml",
	"/recipe-sitemap.xml",
	"/recipes-sitemap.xml",
	"/sitemap/sitemap.xml",
	"/sitemap/sitemap-index.xml",
	"/sitemap.html",
	"/sitemap/",
}
