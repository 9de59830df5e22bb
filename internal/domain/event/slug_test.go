package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain lowercase",
			input:    "rock",
			expected: "rock",
		},
		{
			name:     "mixed case",
			input:    "Electro Swing",
			expected: "electro-swing",
		},
		{
			name:     "french accents",
			input:    "Soirée d'Été",
			expected: "soiree-d-ete",
		},
		{
			name:     "cedilla and grave",
			input:    "Francès & Ça",
			expected: "frances-ca",
		},
		{
			name:     "punctuation runs collapse",
			input:    "hip-hop / rap!!",
			expected: "hip-hop-rap",
		},
		{
			name:     "leading and trailing separators trimmed",
			input:    "  --Jazz--  ",
			expected: "jazz",
		},
		{
			name:     "digits kept",
			input:    "Scène 2",
			expected: "scene-2",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only punctuation",
			input:    "!?&",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugify_Stable(t *testing.T) {
	// Slugifying a slug must be the identity, so stored filter slugs
	// keep matching after reloads.
	for _, s := range []string{"electro-swing", "soiree-d-ete", "scene-2"} {
		assert.Equal(t, s, Slugify(s))
	}
}
