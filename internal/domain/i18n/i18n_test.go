package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_FallsBackToFrench(t *testing.T) {
	assert.Equal(t, LangFR, New("", false).Lang())
	assert.Equal(t, LangFR, New("de", false).Lang())
	assert.Equal(t, LangEN, New("en", false).Lang())
}

func TestTranslator_Day(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		input    string
		expected string
	}{
		{
			name:     "french passes through",
			lang:     LangFR,
			input:    "vendredi",
			expected: "vendredi",
		},
		{
			name:     "english translates",
			lang:     LangEN,
			input:    "vendredi",
			expected: "Friday",
		},
		{
			name:     "english translates with casing and spaces",
			lang:     LangEN,
			input:    " Samedi ",
			expected: "Saturday",
		},
		{
			name:     "unknown day passes through",
			lang:     LangEN,
			input:    "someday",
			expected: "someday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.lang, false)
			assert.Equal(t, tt.expected, tr.Day(tt.input))
		})
	}
}

func TestTranslator_Date(t *testing.T) {
	tests := []struct {
		name        string
		lang        string
		displayYear bool
		input       string
		expected    string
	}{
		{
			name:     "french date",
			lang:     LangFR,
			input:    "2026-06-06",
			expected: "6 juin",
		},
		{
			name:        "french date with year",
			lang:        LangFR,
			displayYear: true,
			input:       "2026-06-06",
			expected:    "6 juin 26",
		},
		{
			name:     "english date",
			lang:     LangEN,
			input:    "2026-06-06",
			expected: "June 6",
		},
		{
			name:        "english date with year",
			lang:        LangEN,
			displayYear: true,
			input:       "2026-12-31",
			expected:    "December 31, 26",
		},
		{
			name:     "malformed date passes through",
			lang:     LangFR,
			input:    "juin 2026",
			expected: "juin 2026",
		},
		{
			name:     "month out of range passes through",
			lang:     LangFR,
			input:    "2026-13-01",
			expected: "2026-13-01",
		},
		{
			name:     "empty date",
			lang:     LangFR,
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.lang, tt.displayYear)
			assert.Equal(t, tt.expected, tr.Date(tt.input))
		})
	}
}
