package citations_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/citations"
)

var grammar = regexp.MustCompile(`(?i)^https?://[^\s,]+$`)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{}},
		{name: "no urls", text: "Acme is a widely used tool.", want: []string{}},
		{
			name: "trailing sentence punctuation",
			text: "See https://acme.com/docs. Also https://blog.acme.com/post!",
			want: []string{"https://acme.com/docs", "https://blog.acme.com/post"},
		},
		{
			name: "parenthesised url",
			text: "Reviews (https://g2.com/acme) are mixed",
			want: []string{"https://g2.com/acme"},
		},
		{
			name: "comma separated list",
			text: "Sources: http://a.com,https://b.org/x?y=1;",
			want: []string{"http://a.com", "https://b.org/x?y=1"},
		},
		{
			name: "duplicates preserved in order",
			text: "https://a.com then https://b.com then https://a.com",
			want: []string{"https://a.com", "https://b.com", "https://a.com"},
		},
		{
			name: "uppercase scheme",
			text: "HTTPS://Example.com/Path:",
			want: []string{"HTTPS://Example.com/Path"},
		},
		{
			name: "bare scheme dropped",
			text: "broken link https://. end",
			want: []string{},
		},
		{
			name: "unicode whitespace terminates",
			text: "https://a.com/x\u2003next",
			want: []string{"https://a.com/x"},
		},
		{
			name: "ftp ignored",
			text: "ftp://files.acme.com and https://acme.com",
			want: []string{"https://acme.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := citations.Extract(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractOutputMatchesGrammar(t *testing.T) {
	inputs := []string{
		"Visit https://acme.com/a?b=c#d).",
		"http://x.y/z;:!?",
		"((https://nested.example/path)))",
		"https://a.com\thttps://b.com\nhttps://c.com",
		"mailto:x@y.com https://ok.io/😀 end",
	}
	for _, in := range inputs {
		for _, u := range citations.Extract(in) {
			assert.Regexp(t, grammar, u)
			assert.False(t, strings.ContainsAny(u[len(u)-1:], ".,;:!?)"), "trailing punctuation in %q", u)
		}
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	text := "Per https://acme.com/a, https://b.org/c. and (https://d.net/e) also https://acme.com/a!"
	first := citations.Extract(text)

	for _, sep := range []string{" ", "\n", ", ", " and "} {
		again := citations.Extract(strings.Join(first, sep))
		assert.Equal(t, first, again, "separator %q", sep)
	}
}

func TestCap(t *testing.T) {
	urls := make([]string, 12)
	for i := range urls {
		urls[i] = "https://example.com/" + strings.Repeat("a", i+1)
	}

	assert.Len(t, citations.Cap(urls, 10), 10)
	assert.Equal(t, urls[:3], citations.Cap(urls[:3], 10))
	assert.Equal(t, []string{}, citations.Cap(nil, 10))
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "acme.com", citations.Domain("https://www.Acme.com/docs"))
	assert.Equal(t, "blog.acme.com", citations.Domain("http://blog.acme.com"))
	assert.Equal(t, "", citations.Domain("://bad"))
}

func TestMentions(t *testing.T) {
	urls := []string{"https://competitor.com/page", "https://example.com/acme/article-1"}
	assert.True(t, citations.Mentions(urls, "Acme"))
	assert.False(t, citations.Mentions(urls, "globex"))
	assert.False(t, citations.Mentions(urls, " "))
}
