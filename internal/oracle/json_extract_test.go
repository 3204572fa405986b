package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_CodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
	}{
		{
			name:     "json tagged block",
			response: "Here is the plan:\n```json\n{\"flights\": []}\n```\nDone.",
			expected: `{"flights": []}`,
		},
		{
			name:     "untagged block",
			response: "```\n{\"ok\": true}\n```",
			expected: `{"ok": true}`,
		},
		{
			name:     "array in block",
			response: "```json\n[1, 2, 3]\n```",
			expected: `[1, 2, 3]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExtractJSON(tt.response)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractJSON_RawJSON(t *testing.T) {
	result, err := ExtractJSON(`The answer is {"needs_additional_tasks": false, "reasoning": "done"} as requested.`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"needs_additional_tasks": false, "reasoning": "done"}`, result)
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	response := `{"new_tasks": {"hotels": [{"request": {"hotel_id": "H1"}}]}}`
	result, err := ExtractJSON("prefix " + response + " suffix")
	require.NoError(t, err)
	assert.JSONEq(t, response, result)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	response := `{"reasoning": "value with } brace and \" quote"}`
	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, response, result)
}

func TestExtractJSON_SkipsNonJSONBlocks(t *testing.T) {
	response := "```python\nprint('hi')\n```\n```json\n{\"a\": 1}\n```"
	result, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, result)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not produce a plan, sorry.")
	assert.Error(t, err)
}

func TestExtractJSON_UnmatchedBrackets(t *testing.T) {
	_, err := ExtractJSON(`{"truncated": `)
	assert.Error(t, err)
}
