package visibility

import (
	"strings"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	"github.com/bryanwahyu/geo-gap-compass/internal/domain/citations"
)

// Analyze derives an AnalysisResult for subjects from one or more completions.
// Texts are joined in order; the first completion carrying a structured
// payload supplies it. It only fails for an empty subject list.
func Analyze(brand string, subjects []string, results ...ai.CompletionResult) (AnalysisResult, error) {
	subjects = cleanSubjects(subjects)
	if len(subjects) == 0 {
		return AnalysisResult{}, ai.Invalid("no subjects provided")
	}

	texts := make([]string, 0, len(results))
	cites := []string{}
	var payload any
	var tokens *int
	allMock := len(results) > 0
	var failure *ai.Failure
	failed := 0

	for _, r := range results {
		texts = append(texts, r.Response)
		cites = append(cites, r.Citations...)
		if payload == nil {
			if v, ok := ParsePayload(r.Response); ok {
				payload = v
			}
		}
		if r.TokensUsed != nil {
			sum := *r.TokensUsed
			if tokens != nil {
				sum += *tokens
			}
			tokens = &sum
		}
		if !r.IsMock {
			allMock = false
		}
		if r.Failure != nil {
			failed++
			if failure == nil {
				failure = r.Failure
			}
		}
	}
	if failed < len(results) {
		failure = nil
	}

	text := strings.Join(texts, "\n")
	return AnalysisResult{
		Brand:             brand,
		Subjects:          subjects,
		Classification:    Classify(text, subjects, payload),
		Citations:         citations.Cap(cites, MaxCitations),
		StructuredPayload: payload,
		IsMock:            allMock,
		TokensUsed:        tokens,
		Failure:           failure,
	}, nil
}

// cleanSubjects trims entries and drops empties, keeping order.
func cleanSubjects(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitList parses a comma separated list.
func SplitList(s string) []string {
	return cleanSubjects(strings.Split(s, ","))
}
