package visibility_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
)

func TestClassifyStructuredPayloadTakesPrecedence(t *testing.T) {
	text := `{"missing": ["reviews"], "strong": ["how-to"], "notes": "how-to content is lacking while reviews are strong and comprehensive"}`
	payload, ok := visibility.ParsePayload(text)
	require.True(t, ok)

	got := visibility.Classify(text, []string{"reviews", "how-to"}, payload)

	assert.Equal(t, visibility.LabelMissing, got["reviews"].Label)
	assert.Equal(t, visibility.LabelStrong, got["how-to"].Label)
}

func TestClassifyBarePayload(t *testing.T) {
	text := `{"missing": ["reviews"], "strong": ["how-to"]}`
	payload, ok := visibility.ParsePayload(text)
	require.True(t, ok)

	got := visibility.Classify(text, []string{"reviews", "how-to"}, payload)

	assert.Equal(t, visibility.LabelMissing, got["reviews"].Label)
	assert.Equal(t, visibility.LabelStrong, got["how-to"].Label)
}

func TestClassifyPayloadMembershipIgnoresCase(t *testing.T) {
	payload := map[string]any{"strong": []any{" How-To "}}

	got := visibility.Classify("", []string{"how-to"}, payload)

	assert.Equal(t, visibility.LabelStrong, got["how-to"].Label)
}

func TestClassifyMissingByOmissionCap(t *testing.T) {
	subjects := []string{"how-to", "comparison", "definition", "use-case", "reviews"}

	got := visibility.Classify("Acme sells widgets to small teams.", subjects, nil)

	missing := 0
	for _, s := range subjects {
		if got[s].Label == visibility.LabelMissing {
			missing++
		}
		assert.Zero(t, got[s].Score, s)
	}
	assert.Equal(t, 3, missing)
	assert.Equal(t, visibility.LabelNeutral, got["use-case"].Label)
	assert.Equal(t, visibility.LabelNeutral, got["reviews"].Label)
}

func TestClassifyProximity(t *testing.T) {
	filler := strings.Repeat("x", 100)

	tests := []struct {
		name    string
		text    string
		subject string
		want    visibility.Label
	}{
		{name: "strong nearby", text: "Acme has strong how-to guides.", subject: "how-to", want: visibility.LabelStrong},
		{name: "weak nearby", text: "Reviews of Acme are limited.", subject: "reviews", want: visibility.LabelMissing},
		{name: "no indicator", text: "Acme publishes a definition page.", subject: "definition", want: visibility.LabelNeutral},
		{name: "nearer strong wins", text: "weak " + filler + " how-to strong", subject: "how-to", want: visibility.LabelStrong},
		{name: "nearer weak wins", text: "strong " + filler + " how-to weak", subject: "how-to", want: visibility.LabelMissing},
		{name: "outside window", text: "how-to " + strings.Repeat("y", 200) + " lacking", subject: "how-to", want: visibility.LabelNeutral},
		{name: "multi word indicator", text: "Comparison content needs improvement.", subject: "comparison", want: visibility.LabelMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := visibility.Classify(tt.text, []string{tt.subject}, nil)
			assert.Equal(t, tt.want, got[tt.subject].Label)
		})
	}
}

func TestClassifyPresentSubjectsDoNotConsumeOmissionCap(t *testing.T) {
	text := "Acme has strong how-to guides and good comparison pages."
	subjects := []string{"how-to", "comparison", "pricing", "reviews", "faq", "webinars"}

	got := visibility.Classify(text, subjects, nil)

	assert.Equal(t, visibility.LabelStrong, got["how-to"].Label)
	assert.Equal(t, visibility.LabelStrong, got["comparison"].Label)
	assert.Equal(t, 70, got["how-to"].Score)
	assert.Equal(t, visibility.LabelMissing, got["pricing"].Label)
	assert.Equal(t, visibility.LabelMissing, got["reviews"].Label)
	assert.Equal(t, visibility.LabelMissing, got["faq"].Label)
	assert.Equal(t, visibility.LabelNeutral, got["webinars"].Label)
}

func TestMentionScore(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "", want: 50},
		{text: "Globex leads.", want: 70},
		{text: "Globex and globex.", want: 90},
		{text: "GLOBEX globex Globex", want: 100},
		{text: "globex globex globex globex globex", want: 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, visibility.MentionScore(tt.text, "Globex"), tt.text)
	}
}

func TestScore(t *testing.T) {
	got := visibility.Score("Globex beats Initech. Globex again.", []string{"Globex", "Initech", "Hooli"})

	assert.Equal(t, []visibility.SubjectScore{
		{Name: "Globex", Mentions: 2, Score: 90},
		{Name: "Initech", Mentions: 1, Score: 70},
		{Name: "Hooli", Mentions: 0, Score: 50},
	}, got)
}
