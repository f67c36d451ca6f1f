package visibility

import (
	"context"
	"strings"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	domain "github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/prompt"
)

// PromptTestCommand runs caller supplied prompts, or the generated default
// set, and analyses coverage of subjects across all answers.
type PromptTestCommand struct {
	Brand    string
	Prompts  []string
	Subjects []string
}

func (s *Service) PromptTest(ctx context.Context, cmd PromptTestCommand) (*PromptTestView, error) {
	brand, err := requireBrand(cmd.Brand)
	if err != nil {
		return nil, err
	}
	prompts := cmd.Prompts
	if len(prompts) == 0 {
		prompts = prompt.MakePrompts(brand)
	}
	subjects := cmd.Subjects
	if len(subjects) == 0 {
		subjects = prompt.DefaultPromptTypes
	}

	results, err := s.Pipeline.Run(ctx, ai.Prompts(brand, prompts...), brand, "")
	if err != nil {
		return nil, err
	}
	analysis, err := domain.Analyze(brand, subjects, results...)
	if err != nil {
		return nil, err
	}

	view := &PromptTestView{
		Record:            &Record{},
		Brand:             brand,
		Results:           results,
		Analysis:          analysis,
		Summary:           summarize(results, brand),
		UsingLiveProvider: s.Pipeline.Live(),
	}
	s.record(ctx, KindPromptTest, brand, analysis.Subjects, analysis.IsMock, view.Record, view)
	return view, nil
}

// Single answers one prompt in brand context.
func (s *Service) Single(ctx context.Context, brand, text string) (*SingleView, error) {
	brand, err := requireBrand(brand)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ai.Invalid("prompt is required")
	}

	res, err := s.Pipeline.RunSingle(ctx, ai.PromptRequest{Text: text, Brand: brand}, brand, "")
	if err != nil {
		return nil, err
	}
	view := &SingleView{CompletionResult: res, Record: &Record{}, Brand: brand}
	s.record(ctx, KindSingle, brand, nil, res.IsMock, view.Record, view)
	return view, nil
}

func summarize(results []ai.CompletionResult, brand string) PromptSummary {
	sum := PromptSummary{Total: len(results), Citations: totalCitations(results)}
	lower := strings.ToLower(brand)
	for _, r := range results {
		if r.Failed() {
			sum.Failed++
			continue
		}
		if r.IsMock {
			sum.Mock++
		}
		if strings.Contains(strings.ToLower(r.Response), lower) || brandInCitations(r.Citations, brand) {
			sum.BrandMentions++
		}
	}
	return sum
}
