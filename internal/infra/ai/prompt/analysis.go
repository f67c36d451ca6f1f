package prompt

import (
	"fmt"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
)

const (
	competitorSystem = "You are a competitive analysis expert specializing in brand strategy."
	domainSystem     = "You are a digital marketing and SEO expert."
	gapSystem        = "You are a content strategy and SEO expert."
)

// BrandMissing asks which content types carry the weakest brand presence. The
// reply opens with a JSON object following CoverageSchema so the analyzer can
// read it as a structured payload.
func BrandMissing(brand string, promptTypes []string) ai.PromptRequest {
	text := fmt.Sprintf(`Analyze %[1]s's online visibility across these content types: %[2]s

For each content type, assess:
1. Whether %[1]s has strong presence
2. Quality of existing content
3. Whether citations/sources mention %[1]s
4. Gaps or opportunities

Identify which content types have the WEAKEST %[1]s presence.

Begin your reply with one JSON object matching this schema, then give your
analysis as plain prose without curly braces:
%[3]s`, brand, joinOr(promptTypes, ""), CoverageSchema())

	return ai.PromptRequest{Text: text, Brand: brand, System: AnalystContext(brand), MaxTokens: AnalysisMaxTokens}
}

// BrandPresence compares the brand against competitors within a topic.
func BrandPresence(brand string, competitors []string, topic string) ai.PromptRequest {
	if topic == "" {
		topic = DefaultTopic
	}
	text := fmt.Sprintf(`Analyze %[1]s's online presence and citation visibility in %[2]s.

Compare against: %[3]s

Provide:
1. Where %[1]s is being cited/mentioned
2. Quality and authority of sources
3. Gaps compared to competitors
4. Recommendations to improve visibility

Include relevant URLs if you know authoritative sources.`, brand, topic, joinOr(competitors, "industry competitors"))

	return ai.PromptRequest{Text: text, Brand: brand, System: AnalystContext(brand), MaxTokens: AnalysisMaxTokens}
}

// Competitors asks for a competitive landscape analysis.
func Competitors(brand string, competitors []string) ai.PromptRequest {
	text := fmt.Sprintf(`Analyze the competitive landscape for %[1]s.

Main competitors: %[2]s

Provide a detailed analysis including:
1. Key differentiators for %[1]s
2. Each competitor's strengths and weaknesses
3. Market positioning insights
4. Strategic recommendations for %[1]s`, brand, joinOr(competitors, "industry competitors"))

	return ai.PromptRequest{Text: text, Brand: brand, System: competitorSystem, MaxTokens: ReportMaxTokens}
}

// Domains asks how each domain can serve the brand's visibility.
func Domains(brand string, domains []string) ai.PromptRequest {
	text := fmt.Sprintf(`Analyze these domains for %[1]s marketing visibility:

Domains: %[2]s

For each domain, provide:
1. Authority and credibility assessment
2. Relevance to %[1]s and its industry
3. Potential value for brand visibility
4. Specific recommendations for %[1]s to leverage or engage with each domain`, brand, joinOr(domains, ""))

	return ai.PromptRequest{Text: text, Brand: brand, System: domainSystem, MaxTokens: ReportMaxTokens}
}

// Gaps asks for a content gap analysis over the given topics.
func Gaps(brand string, topics []string) ai.PromptRequest {
	text := fmt.Sprintf(`Analyze content gaps for %[1]s:

Missing or weak content areas: %[2]s

Provide:
1. Why each gap matters for %[1]s's online visibility
2. Priority ranking (High/Medium/Low) for addressing each gap
3. Specific content recommendations for each gap
4. Expected impact on brand visibility and SEO`, brand, joinOr(topics, ""))

	return ai.PromptRequest{Text: text, Brand: brand, System: gapSystem, MaxTokens: ReportMaxTokens}
}
