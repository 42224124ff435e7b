package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripFences(tc.in))
		})
	}
}

func TestDecodeObject(t *testing.T) {
	var got ResearchedTopic
	err := DecodeObject("```json\n{\"title\":\"Test\",\"summary\":\"S\"}\n```", &got)
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Title)
	assert.Equal(t, "S", got.Summary)
}

func TestDecodeObjectMalformed(t *testing.T) {
	var got ResearchedTopic
	err := DecodeObject("I couldn't produce JSON, sorry.", &got)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
