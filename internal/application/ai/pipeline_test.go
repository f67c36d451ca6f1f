package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/mock"
	"github.com/bryanwahyu/geo-gap-compass/internal/infra/ai/prompt"
)

type fakeClient struct {
	configured bool
	calls      atomic.Int32
	mu         sync.Mutex
	requests   []ai.CompletionRequest
	complete   func(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error)
}

func (f *fakeClient) Configured() bool { return f.configured }

func (f *fakeClient) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.complete(ctx, req)
}

type recorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recorder) ObserveCompletion(provider, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, provider+"/"+outcome)
}

func intPtr(v int) *int { return &v }

func newTestPipeline(c ai.Client, opts Options) *Pipeline {
	return NewPipeline(c, mock.NewGenerator(nil, 0), opts, nil, nil)
}

func TestRunPreservesOrderUnderFailures(t *testing.T) {
	client := &fakeClient{configured: true, complete: func(_ context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		switch {
		case strings.HasSuffix(req.Prompt, "timeout"):
			return nil, &ai.CallError{Kind: ai.FailureTimeout, Err: context.DeadlineExceeded}
		case strings.HasSuffix(req.Prompt, "boom"):
			return nil, &ai.CallError{Kind: ai.FailureProviderError, Err: errors.New("401 unauthorized")}
		}
		time.Sleep(time.Duration(len(req.Prompt)) * time.Millisecond)
		return &ai.Completion{Text: "answer for " + req.Prompt + " https://acme.com/" + req.Prompt + ".", Model: "gpt-4o-mini", TokensUsed: intPtr(9)}, nil
	}}
	p := newTestPipeline(client, Options{Concurrency: 3})

	prompts := ai.Prompts("Acme", "aaaaaaa", "b-timeout", "cc", "d-boom", "e")
	got, err := p.Run(context.Background(), prompts, "Acme", "")
	require.NoError(t, err)
	require.Len(t, got, 5)

	for i, r := range got {
		assert.Equal(t, prompts[i].Text, r.Prompt)
		assert.False(t, r.IsMock)
	}
	assert.Equal(t, []string{"https://acme.com/aaaaaaa"}, got[0].Citations)
	assert.Equal(t, 9, *got[0].TokensUsed)

	require.NotNil(t, got[1].Failure)
	assert.Equal(t, ai.FailureTimeout, got[1].Failure.Kind)
	assert.Empty(t, got[1].Response)
	assert.NotNil(t, got[1].Citations)
	assert.Empty(t, got[1].Citations)

	require.NotNil(t, got[3].Failure)
	assert.Equal(t, ai.FailureProviderError, got[3].Failure.Kind)
	assert.Equal(t, "401 unauthorized", got[3].Failure.Message)

	assert.Nil(t, got[4].Failure)
	assert.Equal(t, int32(5), client.calls.Load())
}

func TestRunUnconfiguredNeverCallsClient(t *testing.T) {
	client := &fakeClient{configured: false, complete: func(context.Context, ai.CompletionRequest) (*ai.Completion, error) {
		t.Fatal("client must not be called")
		return nil, nil
	}}
	p := newTestPipeline(client, Options{})

	got, err := p.Run(context.Background(), ai.Prompts("Acme", "p0", "p1", "p2"), "Acme", "")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.True(t, r.IsMock)
	}
	assert.Equal(t, int32(0), client.calls.Load())
	assert.False(t, p.Live())
}

func TestRunNilClientUsesMock(t *testing.T) {
	p := NewPipeline(nil, nil, Options{}, nil, nil)
	got, err := p.Run(context.Background(), ai.Prompts("Acme", "p0"), "Acme", "")
	require.NoError(t, err)
	assert.True(t, got[0].IsMock)
}

func TestRunRejectsInvalidRequests(t *testing.T) {
	p := newTestPipeline(nil, Options{})

	_, err := p.Run(context.Background(), nil, "Acme", "")
	assert.ErrorIs(t, err, ai.ErrInvalidRequest)

	_, err = p.Run(context.Background(), ai.Prompts("", "p"), "  ", "")
	assert.ErrorIs(t, err, ai.ErrInvalidRequest)
}

func TestRunAppliesDefaultsAndOverrides(t *testing.T) {
	client := &fakeClient{configured: true, complete: func(_ context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
		return &ai.Completion{Text: "ok"}, nil
	}}
	p := newTestPipeline(client, Options{Model: "gpt-4o-mini", Temperature: 0.7, Timeout: 5 * time.Second, Concurrency: 1})

	prompts := []ai.PromptRequest{
		{Text: "plain", Brand: "Acme"},
		{Text: "custom", Brand: "Acme", System: "sys", MaxTokens: 800},
	}
	_, err := p.Run(context.Background(), prompts, "Acme", "")
	require.NoError(t, err)

	require.Len(t, client.requests, 2)
	assert.Equal(t, prompt.BrandContext("Acme"), client.requests[0].System)
	assert.Equal(t, prompt.DefaultMaxTokens, client.requests[0].MaxTokens)
	assert.Equal(t, "gpt-4o-mini", client.requests[0].Model)
	assert.Equal(t, 5*time.Second, client.requests[0].Timeout)
	assert.Equal(t, "sys", client.requests[1].System)
	assert.Equal(t, 800, client.requests[1].MaxTokens)
}

func TestRunIgnoresCallerCancellation(t *testing.T) {
	client := &fakeClient{configured: true, complete: func(ctx context.Context, _ ai.CompletionRequest) (*ai.Completion, error) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &ai.Completion{Text: "still here"}, nil
	}}
	p := newTestPipeline(client, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := p.Run(ctx, ai.Prompts("Acme", "p"), "Acme", "")
	require.NoError(t, err)
	assert.Equal(t, "still here", got[0].Response)
}

func TestRunFallbackToMock(t *testing.T) {
	client := &fakeClient{configured: true, complete: func(context.Context, ai.CompletionRequest) (*ai.Completion, error) {
		return nil, &ai.CallError{Kind: ai.FailureProviderError, Err: errors.New("down")}
	}}
	rec := &recorder{}

	without := NewPipeline(client, nil, Options{Provider: "openai"}, nil, rec)
	got, err := without.Run(context.Background(), ai.Prompts("Acme", "p0", "p1"), "Acme", "")
	require.NoError(t, err)
	assert.True(t, got[0].Failed())
	assert.False(t, got[0].IsMock)
	assert.Equal(t, []string{"openai/provider_error", "openai/provider_error"}, rec.outcomes)

	with := NewPipeline(client, nil, Options{FallbackToMock: true}, nil, nil)
	got, err = with.Run(context.Background(), ai.Prompts("Acme", "p0", "p1"), "Acme", "")
	require.NoError(t, err)
	for _, r := range got {
		assert.True(t, r.IsMock)
		assert.Nil(t, r.Failure)
	}
}

func TestRunSingle(t *testing.T) {
	p := newTestPipeline(nil, Options{})
	got, err := p.RunSingle(context.Background(), ai.PromptRequest{Text: "only"}, "Acme", "")
	require.NoError(t, err)
	assert.Equal(t, "only", got.Prompt)
	assert.Equal(t, []string{"https://competitor.com/top-resource"}, got.Citations)

	_, err = p.RunSingle(context.Background(), ai.PromptRequest{Text: "only"}, "", "")
	assert.ErrorIs(t, err, ai.ErrInvalidRequest)
}
