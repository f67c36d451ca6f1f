package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
)

func TestCompleteSuccess(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest",
			"content":[{"type":"text","text":"Read https://acme.com/guide"}],
			"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()

	c := NewClient("ak-test", "", srv.URL)
	out, err := c.Complete(context.Background(), ai.CompletionRequest{
		System: "sys", Prompt: "hello", MaxTokens: 300, Temperature: 0.5, Timeout: time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "Read https://acme.com/guide", out.Text)
	assert.Equal(t, DefaultModel, out.Model)
	require.NotNil(t, out.TokensUsed)
	assert.Equal(t, 7, *out.TokensUsed)
	assert.EqualValues(t, 300, got["max_tokens"])
	assert.Equal(t, DefaultModel, got["model"])
}

func TestCompleteNotConfigured(t *testing.T) {
	c := NewClient("", "", "")
	assert.False(t, c.Configured())
	_, err := c.Complete(context.Background(), ai.CompletionRequest{Prompt: "p"})
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
}

func TestCompleteRateLimitedSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewClient("ak-test", "", srv.URL)
	_, err := c.Complete(context.Background(), ai.CompletionRequest{Prompt: "p", MaxTokens: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
	assert.ErrorIs(t, err, ai.ErrProvider)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCompleteTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient("ak-test", "", srv.URL)
	_, err := c.Complete(context.Background(), ai.CompletionRequest{Prompt: "p", MaxTokens: 10, Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrTimeout)
	assert.Equal(t, ai.FailureTimeout, ai.FailureFrom(err).Kind)
	assert.Equal(t, int32(1), calls.Load())
}
