// Package citations pulls source URLs out of generated text.
package citations

import (
	"net/url"
	"regexp"
	"strings"
)

// urlPattern matches scheme://<run of non-space, non-comma, non-')' chars>.
var urlPattern = regexp.MustCompile(`(?i)https?://[^\s\p{Z},)]+`)

// trailing punctuation stripped from each match
const trailing = ".,;:!?)"

// Extract returns every URL in text in order of appearance. Duplicates are
// kept since the number of mentions is itself a signal. It never fails; text
// without URLs yields an empty, non-nil slice.
func Extract(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, trailing)
		if !hasHost(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// hasHost drops matches that were reduced to a bare scheme by trimming.
func hasHost(u string) bool {
	i := strings.Index(u, "://")
	return i >= 0 && len(u) > i+3
}

// Cap returns at most n URLs, preserving order.
func Cap(urls []string, n int) []string {
	if urls == nil {
		return []string{}
	}
	if n < 0 || len(urls) <= n {
		return urls
	}
	return urls[:n]
}

// Domain returns the lowercased host of u without a leading "www.".
// Unparseable input yields "".
func Domain(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

// Mentions reports whether any URL contains needle, case-insensitively.
func Mentions(urls []string, needle string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return false
	}
	for _, u := range urls {
		if strings.Contains(strings.ToLower(u), needle) {
			return true
		}
	}
	return false
}
