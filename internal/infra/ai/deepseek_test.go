package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "bare object",
			content: `{"title": "x"}`,
			want:    `{"title": "x"}`,
		},
		{
			name:    "markdown fenced",
			content: "```json\n{\"title\": \"x\"}\n```",
			want:    `{"title": "x"}`,
		},
		{
			name:    "surrounding prose",
			content: `Here is the parsed reminder: {"title": "x"} Let me know if you need changes.`,
			want:    `{"title": "x"}`,
		},
		{
			name:    "nested object",
			content: `{"time": {"hour": 8}}`,
			want:    `{"time": {"hour": 8}}`,
		},
		{
			name:    "no json",
			content: "I could not parse that.",
			wantErr: true,
		},
		{
			name:    "empty",
			content: "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDeepseekParserRequiresKey(t *testing.T) {
	_, err := NewDeepseekParser("", nil)
	assert.Error(t, err)
}
