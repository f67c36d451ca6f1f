package visibility

import (
	"time"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
)

// Label is the coverage class assigned to a subject.
type Label string

const (
	LabelMissing Label = "missing"
	LabelStrong  Label = "strong"
	LabelNeutral Label = "neutral"
)

// MaxCitations caps the citations exposed on an AnalysisResult.
const MaxCitations = 10

// Classification value object
type Classification struct {
	Label Label `json:"label"`
	Score int   `json:"score"`
}

// AnalysisResult is derived from one or more completions and recomputed on
// every request.
type AnalysisResult struct {
	Brand             string                    `json:"brand"`
	Subjects          []string                  `json:"subjects"`
	Classification    map[string]Classification `json:"classification"`
	Citations         []string                  `json:"citations"`
	StructuredPayload any                       `json:"structured_payload,omitempty"`
	IsMock            bool                      `json:"is_mock"`
	TokensUsed        *int                      `json:"tokens_used"`
	Failure           *ai.Failure               `json:"failure,omitempty"`
}

// Labeled returns the subjects carrying label, in subject order.
func (r AnalysisResult) Labeled(label Label) []string {
	out := []string{}
	for _, s := range r.Subjects {
		if c, ok := r.Classification[s]; ok && c.Label == label {
			out = append(out, s)
		}
	}
	return out
}

// HeatmapRow is one prompt type in the gap heatmap.
type HeatmapRow struct {
	PromptType      string `json:"promptType"`
	YourBrandScore  int    `json:"yourBrandScore"`
	CompetitorScore int    `json:"competitorScore"`
	Gap             int    `json:"gap"`
	Priority        string `json:"priority"`
}

// SubjectScore is a mention-count based prominence score.
type SubjectScore struct {
	Name     string `json:"name"`
	Mentions int    `json:"mentions"`
	Score    int    `json:"score"`
}

// DomainInfo is the web lookup enrichment for a domain.
type DomainInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Source      string `json:"source"`
	Trend       []int  `json:"trend,omitempty"`
}

// DomainRecord is a canned fixture entry keyed by domain name.
type DomainRecord struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Visibility  int    `json:"visibility"`
	Trend       []int  `json:"trend"`
}

// DomainTrend compares the first and last visibility samples of a domain.
type DomainTrend struct {
	Domain     string `json:"domain"`
	Visibility int    `json:"visibility"`
	Trend      []int  `json:"trend"`
	Change     int    `json:"change"`
	Direction  string `json:"direction"`
	Source     string `json:"source"`
}

// RunID identifier type
type RunID string

// Run is a persisted analysis, kept for auditing and retrieval.
type Run struct {
	ID        RunID     `json:"id"`
	Kind      string    `json:"kind"`
	Brand     string    `json:"brand"`
	Subjects  []string  `json:"subjects"`
	Result    string    `json:"result"` // JSON document of the analysis view
	IsMock    bool      `json:"is_mock"`
	CreatedAt time.Time `json:"created_at"`
}
