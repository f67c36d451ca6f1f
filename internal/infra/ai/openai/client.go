package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
)

const defaultModel = "gpt-4o-mini"

type Client struct {
	api   *openai.Client
	Model string
}

// NewClient builds a chat completion client. An empty apiKey yields a client
// that reports itself unconfigured and never dials out.
func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = defaultModel
	}
	c := &Client{Model: model}
	if apiKey == "" {
		return c
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	c.api = openai.NewClientWithConfig(cfg)
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

	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: in.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: in.System},
			{Role: openai.ChatMessageRoleUser, Content: in.Prompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		req.MaxCompletionTokens = in.MaxTokens
	} else {
		req.MaxTokens = in.MaxTokens
	}

	resp, err := c.api.CreateChatCompletion(callCtx, req)
	if err != nil {
		return nil, classify(callCtx, err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ai.CallError{Kind: ai.FailureProviderError, Err: errors.New("empty choices in chat completion")}
	}

	out := &ai.Completion{Text: resp.Choices[0].Message.Content, Model: resp.Model}
	if out.Model == "" {
		out.Model = model
	}
	if resp.Usage.TotalTokens > 0 {
		total := resp.Usage.TotalTokens
		out.TokensUsed = &total
	}
	return out, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func classify(callCtx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &ai.CallError{Kind: ai.FailureTimeout, Err: err}
	}
	if statusCode(err) == http.StatusTooManyRequests {
		err = fmt.Errorf("%w: %w", ai.ErrQuotaExceeded, err)
	}
	return &ai.CallError{Kind: ai.FailureProviderError, Err: err}
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
