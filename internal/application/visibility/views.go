package visibility

import (
	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	domain "github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
)

// BrandMissingView reports which prompt types lack brand presence.
type BrandMissingView struct {
	domain.AnalysisResult
	*Record
	PromptTypesAnalyzed   []string `json:"prompt_types_analyzed"`
	MissingPromptTypes    []string `json:"missing_prompt_types"`
	StrongPromptTypes     []string `json:"strong_prompt_types"`
	BrandFoundInCitations bool     `json:"brand_found_in_citations"`
	TotalCitations        int      `json:"total_citations"`
	AIAnalysis            string   `json:"ai_analysis"`
	UsingLiveProvider     bool     `json:"using_live_provider"`
}

// BrandPresenceView compares the brand with competitors within a topic.
type BrandPresenceView struct {
	domain.AnalysisResult
	*Record
	Competitors       []string              `json:"competitors"`
	Topic             string                `json:"topic"`
	Analysis          string                `json:"analysis"`
	CitationCount     int                   `json:"citation_count"`
	Recommendations   []string              `json:"recommendations"`
	Scores            []domain.SubjectScore `json:"scores"`
	UsingLiveProvider bool                  `json:"using_live_provider"`
}

// CompetitorsView scores competitor prominence in a landscape analysis.
type CompetitorsView struct {
	domain.AnalysisResult
	*Record
	Company           string                `json:"company"`
	Competitors       []domain.SubjectScore `json:"competitors"`
	Analysis          string                `json:"analysis"`
	Recommendations   []string              `json:"recommendations"`
	UsingLiveProvider bool                  `json:"using_live_provider"`
}

// GapHeatmapView holds one heatmap row per topic.
type GapHeatmapView struct {
	domain.AnalysisResult
	*Record
	Topics            []string            `json:"topics"`
	Data              []domain.HeatmapRow `json:"data"`
	Analysis          string              `json:"analysis"`
	Recommendations   []string            `json:"recommendations"`
	UsingLiveProvider bool                `json:"using_live_provider"`
}

// DomainView is the per-domain entry of DomainsView.
type DomainView struct {
	domain.DomainInfo
	Score int          `json:"score"`
	Label domain.Label `json:"label"`
}

// DomainsView merges the domain analysis with web lookup enrichment.
type DomainsView struct {
	domain.AnalysisResult
	*Record
	Domains           map[string]DomainView `json:"domains"`
	Analysis          string                `json:"analysis"`
	Note              string                `json:"note"`
	UsingLiveProvider bool                  `json:"using_live_provider"`
}

// DomainStatsView is the web lookup for each domain.
type DomainStatsView struct {
	Domains map[string]domain.DomainInfo `json:"domains"`
	Note    string                       `json:"note"`
}

// PromptSummary aggregates a prompt test run.
type PromptSummary struct {
	Total         int `json:"total"`
	Failed        int `json:"failed"`
	Mock          int `json:"mock"`
	BrandMentions int `json:"brand_mentions"`
	Citations     int `json:"citations"`
}

// PromptTestView holds raw results and their combined analysis.
type PromptTestView struct {
	*Record
	Brand             string                `json:"brand"`
	Results           []ai.CompletionResult `json:"results"`
	Analysis          domain.AnalysisResult `json:"analysis"`
	Summary           PromptSummary         `json:"summary"`
	UsingLiveProvider bool                  `json:"using_live_provider"`
}

// SingleView is one prompt answered in brand context.
type SingleView struct {
	ai.CompletionResult
	*Record
	Brand string `json:"brand"`
}
