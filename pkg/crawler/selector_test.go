package crawler

import "testing"

func TestIsValidCSSSelector(t *testing.T) {
	cases := []struct {
		selector string
		want     bool
	}{
		{"#login-button", true},
		{"div.card > a[href]", true},
		{":nth-child(2)", true},
		{"", false},
		{"   ", false},
		{"1abc", false},
		{"div[data-id='1'", false},
		{"a(b", false},
		{"div{bad}", false},
	}
	for _, c := range cases {
		if got := IsValidCSSSelector(c.selector); got != c.want {
			t.Errorf("IsValidCSSSelector(%q) = %v, want %v", c.selector, got, c.want)
		}
	}
}
