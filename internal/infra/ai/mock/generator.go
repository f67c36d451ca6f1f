// Package mock produces deterministic completions when no live provider is
// available. It never performs network I/O.
package mock

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	"github.com/bryanwahyu/geo-gap-compass/internal/domain/citations"
)

// Model is reported on every mock result.
const Model = "mock"

// DefaultDelay simulates provider latency.
const DefaultDelay = 100 * time.Millisecond

// Fixtures serves canned completion records keyed by prompt index.
type Fixtures interface {
	Completion(key string) (ai.CompletionResult, bool)
}

type Generator struct {
	Fixtures Fixtures
	Delay    time.Duration
}

func NewGenerator(fixtures Fixtures, delay time.Duration) *Generator {
	return &Generator{Fixtures: fixtures, Delay: delay}
}

// Generate returns one result per prompt, in order. The delay is cut short
// when ctx is done; results are returned either way.
func (g *Generator) Generate(ctx context.Context, prompts []string, brand string) []ai.CompletionResult {
	out := make([]ai.CompletionResult, len(prompts))
	for i, p := range prompts {
		out[i] = g.at(i, p, brand)
	}
	g.sleep(ctx)
	return out
}

func (g *Generator) at(i int, prompt, brand string) ai.CompletionResult {
	if g.Fixtures != nil {
		if rec, ok := g.Fixtures.Completion(strconv.Itoa(i)); ok {
			return fromFixture(rec, prompt)
		}
	}

	var urls []string
	if i%3 != 0 {
		urls = []string{
			fmt.Sprintf("https://example.com/%s/article-%d", NormalizeBrand(brand), i),
			"https://competitor.com/page",
		}
	} else {
		urls = []string{"https://competitor.com/top-resource"}
	}
	return ai.CompletionResult{
		Prompt:    prompt,
		Response:  fmt.Sprintf("Mock response for '%s' about %s", prompt, brand),
		Citations: urls,
		Model:     Model,
		IsMock:    true,
	}
}

func fromFixture(rec ai.CompletionResult, prompt string) ai.CompletionResult {
	if rec.Prompt == "" {
		rec.Prompt = prompt
	}
	rec.Citations = citations.Extract(strings.Join(rec.Citations, " "))
	rec.Model = Model
	rec.IsMock = true
	rec.Failure = nil
	return rec
}

func (g *Generator) sleep(ctx context.Context) {
	if g.Delay <= 0 {
		return
	}
	t := time.NewTimer(g.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// NormalizeBrand lowercases and trims the brand and joins whitespace runs with '-'.
func NormalizeBrand(brand string) string {
	return strings.Join(strings.Fields(strings.ToLower(brand)), "-")
}
