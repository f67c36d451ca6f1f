package prompt

import (
	"fmt"
	"strings"
)

// Token budgets per prompt family.
const (
	DefaultMaxTokens  = 300
	AnalysisMaxTokens = 600
	ReportMaxTokens   = 800
)

// DefaultTopic is used by brand presence when no topic is given.
const DefaultTopic = "general marketing"

// DefaultPromptTypes drive the prompt test lab.
var DefaultPromptTypes = []string{
	"how-to", "comparison", "definition", "use-case", "benefits", "problem-solution",
}

// CoveragePromptTypes are analysed by brand-missing when none are given.
var CoveragePromptTypes = []string{
	"how-to", "comparison", "definition", "use-case", "reviews",
}

var brandVariants = []string{"overview", "pricing", "alternatives", "case study"}

const maxGenerated = 10

// BrandContext is the system message for plain brand prompts.
func BrandContext(brand string) string {
	return fmt.Sprintf("You are an assistant helping with %s content. Cite URLs when applicable.", brand)
}

// AnalystContext is the system message for analysis prompts that should cite sources.
func AnalystContext(brand string) string {
	return fmt.Sprintf("You are an expert analyst helping with %s research. Provide detailed, factual information. When applicable, mention authoritative sources or websites.", brand)
}

// MakePrompts generates the default prompt set for a brand.
func MakePrompts(brand string) []string {
	out := make([]string, 0, len(DefaultPromptTypes)+len(brandVariants))
	for _, t := range DefaultPromptTypes {
		out = append(out, fmt.Sprintf("%s: How does %s compare in %s use cases?", t, brand, t))
	}
	for _, v := range brandVariants {
		out = append(out, brand+" "+v)
	}
	if len(out) > maxGenerated {
		out = out[:maxGenerated]
	}
	return out
}

// Template describes one prompt type offered to clients.
type Template struct {
	Type    string `json:"type"`
	Pattern string `json:"pattern"`
}

// Templates lists the prompt patterns MakePrompts expands.
func Templates() []Template {
	out := make([]Template, 0, len(DefaultPromptTypes)+len(brandVariants))
	for _, t := range DefaultPromptTypes {
		out = append(out, Template{Type: t, Pattern: t + ": How does {brand} compare in " + t + " use cases?"})
	}
	for _, v := range brandVariants {
		out = append(out, Template{Type: strings.ReplaceAll(v, " ", "-"), Pattern: "{brand} " + v})
	}
	return out
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
