package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
	}{
		{
			name:     "plain object",
			response: `  {"name": "trip"}  `,
			expected: `{"name": "trip"}`,
		},
		{
			name:     "fenced json block",
			response: "Here is the plan:\n```json\n{\"plans\": []}\n```\nEnjoy!",
			expected: `{"plans": []}`,
		},
		{
			name:     "untagged fence",
			response: "```\n[1, 2]\n```",
			expected: `[1, 2]`,
		},
		{
			name:     "object inside prose",
			response: `Sure! {"city_plans": [{"city": "Paris"}]} Let me know.`,
			expected: `{"city_plans": [{"city": "Paris"}]}`,
		},
		{
			name:     "other language fence is skipped",
			response: "```python\nprint(1)\n```\n{\"ok\": true}",
			expected: `{"ok": true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.response)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not find any flights.")
	assert.Error(t, err)

	_, err = ExtractJSON("broken {\"a\": ")
	assert.Error(t, err)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "a, b", JoinNonEmpty([]string{" a ", "", "  ", "b"}, ", "))
	assert.True(t, IsIATACode("LHR"))
	assert.False(t, IsIATACode("lhr"))
	assert.False(t, IsIATACode("London"))
	assert.Equal(t, "new york", NormalizeCity("  New   York "))
}
