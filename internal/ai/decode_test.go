// ABOUTME: Tests for model text post-processing.
package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding space", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
		{"single line", "```{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		A int `json:"a"`
	}

	require.NoError(t, DecodeJSON("```json\n{\"a\": 3}\n```", &out))
	assert.Equal(t, 3, out.A)

	require.NoError(t, DecodeJSON("Sure! Here you go: {\"a\": 7} hope that helps", &out))
	assert.Equal(t, 7, out.A)
}

func TestDecodeJSONMalformed(t *testing.T) {
	var out map[string]any

	err := DecodeJSON("I could not understand that meal.", &out)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	err = DecodeJSON("```json\n{\"a\": \n```", &out)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
