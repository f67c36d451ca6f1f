package visibility_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/ai"
	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
)

func intPtr(v int) *int { return &v }

func TestAnalyzeCapsCitations(t *testing.T) {
	cites := make([]string, 0, 14)
	for i := 0; i < 14; i++ {
		cites = append(cites, fmt.Sprintf("https://example.com/%d", i))
	}

	got, err := visibility.Analyze("Acme", []string{"how-to"}, ai.CompletionResult{Response: "how-to", Citations: cites})

	require.NoError(t, err)
	assert.Len(t, got.Citations, visibility.MaxCitations)
	assert.Equal(t, cites[:10], got.Citations)
}

func TestAnalyzeMultipleCompletions(t *testing.T) {
	results := []ai.CompletionResult{
		{Response: "Acme has strong how-to guides.", Citations: []string{"https://a.com"}, TokensUsed: intPtr(12)},
		{Response: `{"missing": ["reviews"]}`, Citations: []string{"https://b.com", "https://a.com"}, TokensUsed: intPtr(30)},
		{Response: "", Citations: []string{}, Failure: &ai.Failure{Kind: ai.FailureTimeout, Message: "timed out"}},
	}

	got, err := visibility.Analyze("Acme", []string{"how-to", "reviews", " ", "definition"}, results...)

	require.NoError(t, err)
	assert.Equal(t, []string{"how-to", "reviews", "definition"}, got.Subjects)
	assert.Equal(t, []string{"https://a.com", "https://b.com", "https://a.com"}, got.Citations)
	assert.Equal(t, visibility.LabelStrong, got.Classification["how-to"].Label)
	assert.Equal(t, visibility.LabelMissing, got.Classification["reviews"].Label)
	assert.Equal(t, visibility.LabelMissing, got.Classification["definition"].Label)
	assert.Equal(t, map[string]any{"missing": []any{"reviews"}}, got.StructuredPayload)
	require.NotNil(t, got.TokensUsed)
	assert.Equal(t, 42, *got.TokensUsed)
	assert.False(t, got.IsMock)
	assert.Nil(t, got.Failure)
	assert.Equal(t, []string{"reviews", "definition"}, got.Labeled(visibility.LabelMissing))
}

func TestAnalyzeAllFailed(t *testing.T) {
	f := &ai.Failure{Kind: ai.FailureProviderError, Message: "401"}

	got, err := visibility.Analyze("Acme", []string{"how-to"}, ai.CompletionResult{Citations: []string{}, Failure: f})

	require.NoError(t, err)
	assert.Equal(t, f, got.Failure)
	assert.Nil(t, got.TokensUsed)
	assert.Equal(t, []string{}, got.Citations)
}

func TestAnalyzeMock(t *testing.T) {
	got, err := visibility.Analyze("Acme", []string{"how-to"},
		ai.CompletionResult{Response: "Mock response", IsMock: true},
		ai.CompletionResult{Response: "Mock response", IsMock: true},
	)

	require.NoError(t, err)
	assert.True(t, got.IsMock)
}

func TestAnalyzeRejectsEmptySubjects(t *testing.T) {
	_, err := visibility.Analyze("Acme", []string{" ", ""}, ai.CompletionResult{})
	assert.ErrorIs(t, err, ai.ErrInvalidRequest)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.com", "b.com"}, visibility.SplitList(" a.com, ,b.com,"))
	assert.Equal(t, []string{}, visibility.SplitList(""))
}
