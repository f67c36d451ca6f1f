package visibility

import (
	"context"
	"strings"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	domain "github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/prompt"
)

// BrandMissing asks which prompt types carry the weakest brand presence.
func (s *Service) BrandMissing(ctx context.Context, brand string, promptTypes []string) (*BrandMissingView, error) {
	brand, err := requireBrand(brand)
	if err != nil {
		return nil, err
	}
	if len(promptTypes) == 0 {
		promptTypes = prompt.CoveragePromptTypes
	}

	res, err := s.Pipeline.RunSingle(ctx, prompt.BrandMissing(brand, promptTypes), brand, "")
	if err != nil {
		return nil, err
	}
	analysis, err := domain.Analyze(brand, promptTypes, res)
	if err != nil {
		return nil, err
	}

	view := &BrandMissingView{
		AnalysisResult:        analysis,
		Record:                &Record{},
		PromptTypesAnalyzed:   analysis.Subjects,
		MissingPromptTypes:    analysis.Labeled(domain.LabelMissing),
		StrongPromptTypes:     analysis.Labeled(domain.LabelStrong),
		BrandFoundInCitations: brandInCitations(res.Citations, brand),
		TotalCitations:        len(res.Citations),
		AIAnalysis:            res.Response,
		UsingLiveProvider:     s.Pipeline.Live(),
	}
	s.record(ctx, KindBrandMissing, brand, analysis.Subjects, analysis.IsMock, view.Record, view)
	return view, nil
}

// BrandPresence compares the brand with its competitors within a topic.
func (s *Service) BrandPresence(ctx context.Context, brand string, competitors []string, topic string) (*BrandPresenceView, error) {
	brand, err := requireBrand(brand)
	if err != nil {
		return nil, err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = prompt.DefaultTopic
	}

	res, err := s.Pipeline.RunSingle(ctx, prompt.BrandPresence(brand, competitors, topic), brand, "")
	if err != nil {
		return nil, err
	}
	subjects := append([]string{brand}, competitors...)
	analysis, err := domain.Analyze(brand, subjects, res)
	if err != nil {
		return nil, err
	}

	view := &BrandPresenceView{
		AnalysisResult:    analysis,
		Record:            &Record{},
		Competitors:       nonNil(competitors),
		Topic:             topic,
		Analysis:          res.Response,
		CitationCount:     len(res.Citations),
		Recommendations:   domain.Recommendations(res.Response),
		Scores:            domain.Score(res.Response, analysis.Subjects),
		UsingLiveProvider: s.Pipeline.Live(),
	}
	s.record(ctx, KindBrandPresence, brand, analysis.Subjects, analysis.IsMock, view.Record, view)
	return view, nil
}

// Competitors scores competitor prominence in a landscape analysis.
func (s *Service) Competitors(ctx context.Context, brand string, competitors []string) (*CompetitorsView, error) {
	brand, err := requireBrand(brand)
	if err != nil {
		return nil, err
	}
	if len(domain.SplitList(strings.Join(competitors, ","))) == 0 {
		return nil, ai.Invalid("at least one competitor is required")
	}

	res, err := s.Pipeline.RunSingle(ctx, prompt.Competitors(brand, competitors), brand, "")
	if err != nil {
		return nil, err
	}
	analysis, err := domain.Analyze(brand, competitors, res)
	if err != nil {
		return nil, err
	}

	view := &CompetitorsView{
		AnalysisResult:    analysis,
		Record:            &Record{},
		Company:           brand,
		Competitors:       domain.Score(res.Response, analysis.Subjects),
		Analysis:          res.Response,
		Recommendations:   domain.Recommendations(res.Response),
		UsingLiveProvider: s.Pipeline.Live(),
	}
	s.record(ctx, KindCompetitors, brand, analysis.Subjects, analysis.IsMock, view.Record, view)
	return view, nil
}

// GapHeatmap scores brand against competitor coverage per topic.
func (s *Service) GapHeatmap(ctx context.Context, brand string, topics []string) (*GapHeatmapView, error) {
	brand, err := requireBrand(brand)
	if err != nil {
		return nil, err
	}
	if len(domain.SplitList(strings.Join(topics, ","))) == 0 {
		return nil, ai.Invalid("at least one topic is required")
	}

	res, err := s.Pipeline.RunSingle(ctx, prompt.Gaps(brand, topics), brand, "")
	if err != nil {
		return nil, err
	}
	analysis, err := domain.Analyze(brand, topics, res)
	if err != nil {
		return nil, err
	}

	view := &GapHeatmapView{
		AnalysisResult:    analysis,
		Record:            &Record{},
		Topics:            analysis.Subjects,
		Data:              domain.Heatmap(res.Response, analysis.Subjects),
		Analysis:          res.Response,
		Recommendations:   domain.Recommendations(res.Response),
		UsingLiveProvider: s.Pipeline.Live(),
	}
	s.record(ctx, KindGapHeatmap, brand, analysis.Subjects, analysis.IsMock, view.Record, view)
	return view, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
