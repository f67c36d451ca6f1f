package prompt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakePrompts(t *testing.T) {
	got := MakePrompts("Acme")
	require.Len(t, got, 10)
	assert.Equal(t, "how-to: How does Acme compare in how-to use cases?", got[0])
	assert.Equal(t, "problem-solution: How does Acme compare in problem-solution use cases?", got[5])
	assert.Equal(t, "Acme overview", got[6])
	assert.Equal(t, "Acme case study", got[9])
}

func TestTemplatesCoverMakePrompts(t *testing.T) {
	assert.Len(t, Templates(), len(MakePrompts("x")))
	assert.Equal(t, "case-study", Templates()[9].Type)
}

func TestContexts(t *testing.T) {
	assert.Equal(t, "You are an assistant helping with Acme content. Cite URLs when applicable.", BrandContext("Acme"))
	assert.Contains(t, AnalystContext("Acme"), "helping with Acme research")
}

func TestBrandMissingEmbedsSchema(t *testing.T) {
	req := BrandMissing("Acme", []string{"how-to", "reviews"})
	assert.Equal(t, "Acme", req.Brand)
	assert.Equal(t, AnalysisMaxTokens, req.MaxTokens)
	assert.Contains(t, req.Text, "content types: how-to, reviews")
	assert.Contains(t, req.Text, "WEAKEST Acme presence")
	assert.Contains(t, req.Text, "missing_prompt_types")
	assert.Contains(t, req.Text, "Begin your reply with one JSON object")
}

func TestCoverageSchema(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(CoverageSchema()), &doc))
	assert.Equal(t, "object", doc["type"])
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "missing_prompt_types")
	assert.Contains(t, props, "strong_prompt_types")
}

func TestBrandPresenceDefaults(t *testing.T) {
	req := BrandPresence("Acme", nil, "")
	assert.Contains(t, req.Text, "visibility in general marketing")
	assert.Contains(t, req.Text, "Compare against: industry competitors")
}

func TestReportPrompts(t *testing.T) {
	c := Competitors("Acme", []string{"Globex", "Initech"})
	assert.Equal(t, competitorSystem, c.System)
	assert.Equal(t, ReportMaxTokens, c.MaxTokens)
	assert.Contains(t, c.Text, "Main competitors: Globex, Initech")

	d := Domains("Acme", []string{"a.com"})
	assert.Equal(t, domainSystem, d.System)
	assert.Contains(t, d.Text, "Domains: a.com")

	g := Gaps("Acme", []string{"pricing"})
	assert.Equal(t, gapSystem, g.System)
	assert.Contains(t, g.Text, "Missing or weak content areas: pricing")
}
