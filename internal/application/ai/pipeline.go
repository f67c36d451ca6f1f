package ai

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	"github.com/bryanwahyu/geo-gap-compass/internal/domain/citations"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/mock"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/prompt"
	"github.com/bryanwahyu/geo-gap-compass/internal/logger"
)

const defaultConcurrency = 4

// MockGenerator produces deterministic results without network I/O.
type MockGenerator interface {
	Generate(ctx context.Context, prompts []string, brand string) []ai.CompletionResult
}

// Recorder observes completion outcomes.
type Recorder interface {
	ObserveCompletion(provider, outcome string, elapsed time.Duration)
}

type Options struct {
	Provider    string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Concurrency int
	// FallbackToMock replaces a run whose live attempts all failed with mock output.
	FallbackToMock bool
}

// Pipeline turns prompt requests into completion results, one per prompt,
// in input order. Per-prompt failures are carried as data.
type Pipeline struct {
	client  ai.Client
	mock    MockGenerator
	opts    Options
	log     *zap.Logger
	metrics Recorder
}

func NewPipeline(client ai.Client, gen MockGenerator, opts Options, log *zap.Logger, metrics Recorder) *Pipeline {
	if opts.Concurrency < 1 {
		opts.Concurrency = defaultConcurrency
	}
	if gen == nil {
		gen = mock.NewGenerator(nil, 0)
	}
	return &Pipeline{client: client, mock: gen, opts: opts, log: logger.OrNop(log), metrics: metrics}
}

// Live reports whether runs reach the configured provider.
func (p *Pipeline) Live() bool {
	return p.client != nil && p.client.Configured()
}

// Run executes every prompt. The only error returned is ai.ErrInvalidRequest.
func (p *Pipeline) Run(ctx context.Context, prompts []ai.PromptRequest, brand, model string) ([]ai.CompletionResult, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, ai.Invalid("brand is required")
	}
	if len(prompts) == 0 {
		return nil, ai.Invalid("at least one prompt is required")
	}

	if !p.Live() {
		return p.runMock(ctx, prompts, brand), nil
	}

	start := time.Now()
	results := p.runLive(ctx, prompts, brand, model)

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	if failed == len(results) && p.opts.FallbackToMock {
		p.log.Warn("all live completions failed, using mock output",
			zap.String("brand", brand),
			zap.Int("prompts", len(prompts)),
			zap.String("first_failure", results[0].Failure.Message),
		)
		return p.runMock(ctx, prompts, brand), nil
	}

	p.log.Info("pipeline run completed",
		zap.String("provider", p.opts.Provider),
		zap.String("brand", brand),
		zap.Int("prompts", len(prompts)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

// RunSingle runs one prompt through the same path as Run.
func (p *Pipeline) RunSingle(ctx context.Context, req ai.PromptRequest, brand, model string) (ai.CompletionResult, error) {
	results, err := p.Run(ctx, []ai.PromptRequest{req}, brand, model)
	if err != nil {
		return ai.CompletionResult{}, err
	}
	return results[0], nil
}

func (p *Pipeline) runLive(ctx context.Context, prompts []ai.PromptRequest, brand, model string) []ai.CompletionResult {
	// Calls are bounded by the per-call timeout only.
	base := context.WithoutCancel(ctx)
	results := make([]ai.CompletionResult, len(prompts))

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i := range prompts {
		i := i
		g.Go(func() error {
			results[i] = p.complete(base, prompts[i], brand, model)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Pipeline) complete(ctx context.Context, pr ai.PromptRequest, brand, model string) ai.CompletionResult {
	req := ai.CompletionRequest{
		System:      pr.System,
		Prompt:      pr.Text,
		Model:       model,
		MaxTokens:   pr.MaxTokens,
		Temperature: p.opts.Temperature,
		Timeout:     p.opts.Timeout,
	}
	if req.System == "" {
		req.System = prompt.BrandContext(brand)
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = prompt.DefaultMaxTokens
	}
	if req.Model == "" {
		req.Model = p.opts.Model
	}

	start := time.Now()
	resp, err := p.client.Complete(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		failure := ai.FailureFrom(err)
		if failure.Kind == ai.FailureNotConfigured {
			failure.Kind = ai.FailureProviderError
		}
		p.observe(string(failure.Kind), elapsed)
		p.log.Warn("completion failed",
			zap.String("brand", brand),
			zap.String("kind", string(failure.Kind)),
			zap.Error(err),
		)
		return ai.CompletionResult{
			Prompt:    pr.Text,
			Citations: []string{},
			Failure:   failure,
		}
	}

	p.observe("success", elapsed)
	return ai.CompletionResult{
		Prompt:     pr.Text,
		Response:   resp.Text,
		Citations:  citations.Extract(resp.Text),
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
	}
}

func (p *Pipeline) runMock(ctx context.Context, prompts []ai.PromptRequest, brand string) []ai.CompletionResult {
	texts := make([]string, len(prompts))
	for i, pr := range prompts {
		texts[i] = pr.Text
	}
	start := time.Now()
	results := p.mock.Generate(ctx, texts, brand)
	p.observe("mock", time.Since(start))
	p.log.Debug("pipeline served mock output", zap.String("brand", brand), zap.Int("prompts", len(prompts)))
	return results
}

func (p *Pipeline) observe(outcome string, elapsed time.Duration) {
	if p.metrics == nil {
		return
	}
	provider := p.opts.Provider
	if outcome == "mock" {
		provider = "mock"
	}
	p.metrics.ObserveCompletion(provider, outcome, elapsed)
}
