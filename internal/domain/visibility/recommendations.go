package visibility

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxRecommendations   = 10
	minRecommendationLen = 10
)

var (
	numbered    = regexp.MustCompile(`^\d+\.`)
	bulletStrip = regexp.MustCompile(`^(?:\d+\.|•|-)\s*`)
)

// Recommendations picks numbered or bulleted lines out of text.
func Recommendations(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !numbered.MatchString(line) && !strings.HasPrefix(line, "•") && !strings.HasPrefix(line, "-") {
			continue
		}
		clean := bulletStrip.ReplaceAllString(line, "")
		if utf8.RuneCountInString(clean) > minRecommendationLen {
			out = append(out, clean)
		}
		if len(out) == maxRecommendations {
			break
		}
	}
	return out
}
