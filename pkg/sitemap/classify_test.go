package sitemap

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Kind
	}{
		{
			name:    "empty string",
			content: "",
			want:    KindEmpty,
		},
		{
			name:    "whitespace only",
			content: "  \n\t  ",
			want:    KindEmpty,
		},
		{
			name:    "html doctype",
			content: "<!DOCTYPE html><html><body><a href='/a'>A</a></body></html>",
			want:    KindHTML,
		},
		{
			name:    "uppercase html tag",
			content: "<HTML><BODY>sitemap</BODY></HTML>",
			want:    KindHTML,
		},
		{
			name:    "bare table page",
			content: "<table><tr><td><a href='/r/1'>One</a></td></tr></table>",
			want:    KindHTML,
		},
		{
			name:    "div fragment",
			content: `<div class="sitemap"><a href="/r/1">One</a></div>`,
			want:    KindHTML,
		},
		{
			name:    "namespaced index",
			content: indexXML("https://example.com/a.xml"),
			want:    KindIndex,
		},
		{
			name: "namespace-free index",
			content: `<?xml version="1.0"?>
<sitemapindex>
  <sitemap><loc>https://example.com/a.xml</loc></sitemap>
</sitemapindex>`,
			want: KindIndex,
		},
		{
			name: "prefixed index without root marker",
			content: `<?xml version="1.0"?>
<ns0:sitemapindex xmlns:ns0="http://www.sitemaps.org/schemas/sitemap/0.9">
  <ns0:sitemap><ns0:loc>https://example.com/a.xml</ns0:loc></ns0:sitemap>
</ns0:sitemapindex>`,
			want: KindIndex,
		},
		{
			name:    "namespaced urlset",
			content: urlsetXML("https://example.com/r/1"),
			want:    KindURLSet,
		},
		{
			name: "namespace-free urlset",
			content: `<?xml version="1.0"?>
<urlset>
  <url><loc>https://example.com/r/1</loc></url>
</urlset>`,
			want: KindURLSet,
		},
		{
			name:    "unparseable text defaults to urlset",
			content: "not xml, not html",
			want:    KindURLSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.content)
			if got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}

			// Classification is a pure function of the text.
			if again := Classify(tt.content); again != got {
				t.Errorf("Classify() not stable: %v then %v", got, again)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindEmpty, "empty"},
		{KindHTML, "html"},
		{KindIndex, "index"},
		{KindURLSet, "urlset"},
		{Kind(99), "empty"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
