package llmclient

import "testing"

func TestCleanResponse(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"plain fence", "```\nhello\n```", "hello"},
		{"no fence", "plain text", "plain text"},
		{"surrounding whitespace", "  \n```json\n{}\n```\n  ", "{}"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CleanResponse(c.in); got != c.want {
				t.Errorf("CleanResponse(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}
