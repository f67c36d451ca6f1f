package visibility

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	domain "github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/prompt"
)

const lookupNote = "Using DuckDuckGo API with fallback demo data"

const (
	sourceFixture = "fixture"
	sourceDefault = "default"
)

// Domains analyses domains for the brand and enriches each with a web lookup.
func (s *Service) Domains(ctx context.Context, brand string, domains []string) (*DomainsView, error) {
	brand, err := requireBrand(brand)
	if err != nil {
		return nil, err
	}
	domains = domain.SplitList(strings.Join(domains, ","))
	if len(domains) == 0 {
		return nil, ai.Invalid("no domains provided")
	}

	res, err := s.Pipeline.RunSingle(ctx, prompt.Domains(brand, domains), brand, "")
	if err != nil {
		return nil, err
	}
	analysis, err := domain.Analyze(brand, domains, res)
	if err != nil {
		return nil, err
	}
	infos := s.lookupAll(ctx, domains)

	view := &DomainsView{
		AnalysisResult:    analysis,
		Record:            &Record{},
		Domains:           make(map[string]DomainView, len(domains)),
		Analysis:          res.Response,
		Note:              lookupNote,
		UsingLiveProvider: s.Pipeline.Live(),
	}
	for i, d := range domains {
		c := analysis.Classification[d]
		view.Domains[d] = DomainView{DomainInfo: infos[i], Score: c.Score, Label: c.Label}
	}
	s.record(ctx, KindDomains, brand, domains, analysis.IsMock, view.Record, view)
	return view, nil
}

// DomainStats looks up each domain, falling back to demo data.
func (s *Service) DomainStats(ctx context.Context, domains []string) (*DomainStatsView, error) {
	domains = domain.SplitList(strings.Join(domains, ","))
	if len(domains) == 0 {
		return nil, ai.Invalid("no domains provided")
	}
	infos := s.lookupAll(ctx, domains)
	view := &DomainStatsView{Domains: make(map[string]domain.DomainInfo, len(domains)), Note: lookupNote}
	for i, d := range domains {
		view.Domains[d] = infos[i]
	}
	return view, nil
}

// DomainTrends compares first and last visibility samples per domain.
func (s *Service) DomainTrends(ctx context.Context, domains []string) ([]domain.DomainTrend, error) {
	domains = domain.SplitList(strings.Join(domains, ","))
	if len(domains) == 0 {
		return nil, ai.Invalid("no domains provided")
	}
	out := make([]domain.DomainTrend, 0, len(domains))
	for _, d := range domains {
		if rec, ok := s.Trends.Domain(d); ok {
			out = append(out, domain.Trend(d, rec, sourceFixture))
			continue
		}
		out = append(out, domain.Trend(d, s.Trends.Default(), sourceDefault))
	}
	return out, nil
}

// lookupAll resolves every domain; failures degrade to demo data.
func (s *Service) lookupAll(ctx context.Context, domains []string) []domain.DomainInfo {
	out := make([]domain.DomainInfo, len(domains))
	if s.Lookup == nil {
		for i, d := range domains {
			out[i] = domain.FallbackInfo(d, s.Trends.Default())
		}
		return out
	}

	limit := s.LookupConcurrency
	if limit < 1 {
		limit = 4
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, d := range domains {
		i, d := i, d
		g.Go(func() error {
			info, err := s.Lookup.Lookup(ctx, d)
			if err != nil {
				s.logger().Warn("web lookup failed, using demo data", zap.String("domain", d), zap.Error(err))
				info = domain.FallbackInfo(d, s.Trends.Default())
			}
			out[i] = info
			return nil
		})
	}
	_ = g.Wait()
	return out
}
