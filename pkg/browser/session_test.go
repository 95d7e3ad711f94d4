package browser

import "testing"

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		a, b  string
		equal bool
	}{
		{"https://www.Example.com/path/", "https://example.com/path", true},
		{"https://example.com", "https://example.com/", true},
		{"https://example.com/a", "https://example.com/b", false},
		{"http://example.com", "https://example.com", false},
	}
	for _, c := range cases {
		got := normalizeURL(c.a) == normalizeURL(c.b)
		if got != c.equal {
			t.Errorf("normalizeURL(%q) == normalizeURL(%q): got %v, want %v", c.a, c.b, got, c.equal)
		}
	}
}
