package sitemap

import "testing"

func TestURLSet(t *testing.T) {
	s := NewURLSet("https://example.com/a", "https://example.com/b")

	s.Add("https://example.com/c")
	s.Add("https://example.com/a") // duplicate

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if !s.Contains("https://example.com/c") {
		t.Error("Contains() = false for added URL")
	}
	if s.Contains("https://example.com/d") {
		t.Error("Contains() = true for absent URL")
	}
}

func TestURLSet_Union(t *testing.T) {
	a := NewURLSet("https://example.com/1", "https://example.com/2")
	b := NewURLSet("https://example.com/2", "https://example.com/3")

	a.Union(b)

	if a.Len() != 3 {
		t.Errorf("Len() after union = %d, want 3", a.Len())
	}
	if b.Len() != 2 {
		t.Errorf("union modified its argument: Len() = %d, want 2", b.Len())
	}
}

func TestURLSet_SliceSorted(t *testing.T) {
	s := NewURLSet(
		"https://example.com/c",
		"https://example.com/a",
		"https://example.com/b",
	)

	got := s.Slice()

	want := []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Slice() = %v, want sorted %v", got, want)
		}
	}
}
