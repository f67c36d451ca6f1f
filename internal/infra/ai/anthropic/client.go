package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-haiku-latest"

type Client struct {
	api   *anthropic.Client
	Model string
}

// NewClient builds a Messages API client. Retries are disabled so each
// Complete call is exactly one attempt.
func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = DefaultModel
	}
	c := &Client{Model: model}
	if apiKey == "" {
		return c
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	client := anthropic.NewClient(opts...)
	c.api = &client
	return c
}

func (c *Client) Configured() bool { return c != nil && c.api != nil }

func (c *Client) Complete(ctx context.Context, in ai.CompletionRequest) (*ai.Completion, error) {
	if !c.Configured() {
		return nil, &ai.CallError{Kind: ai.FailureNotConfigured}
	}
	model := in.Model
	if model == "" {
		model = c.Model
	}

	callCtx := ctx
	if in.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, in.Timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(in.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(in.Prompt)),
		},
		Temperature: anthropic.Float(float64(in.Temperature)),
	}
	if in.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: in.System}}
	}

	resp, err := c.api.Messages.New(callCtx, params)
	if err != nil {
		return nil, classify(callCtx, err)
	}

	out := &ai.Completion{Text: extractText(resp), Model: string(resp.Model)}
	if out.Model == "" {
		out.Model = model
	}
	if total := int(resp.Usage.InputTokens + resp.Usage.OutputTokens); total > 0 {
		out.TokensUsed = &total
	}
	return out, nil
}

func extractText(resp *anthropic.Message) string {
	var parts []string
	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			parts = append(parts, variant.Text)
		}
	}
	return strings.Join(parts, "")
}

func classify(callCtx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &ai.CallError{Kind: ai.FailureTimeout, Err: err}
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		err = fmt.Errorf("%w: %w", ai.ErrQuotaExceeded, err)
	}
	return &ai.CallError{Kind: ai.FailureProviderError, Err: err}
}
