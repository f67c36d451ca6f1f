package visibility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/geo-gap-compass/internal/domain/visibility"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
		want   any
	}{
		{name: "object", text: `  {"missing": ["reviews"]}  `, wantOK: true, want: map[string]any{"missing": []any{"reviews"}}},
		{name: "array", text: `["a", "b"]`, wantOK: true, want: []any{"a", "b"}},
		{name: "fenced", text: "```json\n{\"strong\": [\"how-to\"]}\n```", wantOK: true, want: map[string]any{"strong": []any{"how-to"}}},
		{name: "relaxed trailing prose", text: `{"missing": ["x"]} hope this helps`, wantOK: true, want: map[string]any{"missing": []any{"x"}}},
		{name: "leading prose is not structured", text: `Here you go: {"missing": ["x"]}`, wantOK: false},
		{name: "truncated", text: `{"missing": ["x"`, wantOK: false},
		{name: "broken array", text: `[1, 2`, wantOK: false},
		{name: "empty", text: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := visibility.ParsePayload(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}
