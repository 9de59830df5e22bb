package player

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestResolveVideoURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected VideoSpec
	}{
		{
			name:     "short link",
			url:      "https://youtu.be/dQw4w9WgXcQ",
			expected: VideoSpec{ID: "dQw4w9WgXcQ"},
		},
		{
			name:     "short link with start offset",
			url:      "https://youtu.be/dQw4w9WgXcQ?t=42",
			expected: VideoSpec{ID: "dQw4w9WgXcQ", Start: 42},
		},
		{
			name:     "short link with suffixed offset",
			url:      "https://youtu.be/dQw4w9WgXcQ?t=42s",
			expected: VideoSpec{ID: "dQw4w9WgXcQ", Start: 42},
		},
		{
			name:     "canonical watch link",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: VideoSpec{ID: "dQw4w9WgXcQ"},
		},
		{
			name:     "watch link with extra params",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123&index=2",
			expected: VideoSpec{ID: "dQw4w9WgXcQ"},
		},
		{
			name:     "embed path",
			url:      "https://www.youtube.com/embed/dQw4w9WgXcQ",
			expected: VideoSpec{ID: "dQw4w9WgXcQ"},
		},
		{
			name:     "shorts path",
			url:      "https://www.youtube.com/shorts/abc-DEF_123",
			expected: VideoSpec{ID: "abc-DEF_123"},
		},
		{
			name:     "live path",
			url:      "https://www.youtube.com/live/dQw4w9WgXcQ",
			expected: VideoSpec{ID: "dQw4w9WgXcQ"},
		},
		{
			name:     "short link with trailing path",
			url:      "https://youtu.be/dQw4w9WgXcQ/extra",
			expected: VideoSpec{ID: "dQw4w9WgXcQ"},
		},
		{
			name:     "malformed offset ignored",
			url:      "https://youtu.be/dQw4w9WgXcQ?t=later",
			expected: VideoSpec{ID: "dQw4w9WgXcQ"},
		},
		{
			name:     "negative offset ignored",
			url:      "https://youtu.be/dQw4w9WgXcQ?t=-5",
			expected: VideoSpec{ID: "dQw4w9WgXcQ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ResolveVideoURL(tt.url)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, spec)
		})
	}
}

func TestResolveVideoURL_Invalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "no id", url: "https://www.youtube.com/watch"},
		{name: "bare host", url: "https://youtu.be/"},
		{name: "unrelated page", url: "https://example.com/event/12"},
		{name: "id with invalid characters", url: "https://youtu.be/bad%20id!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveVideoURL(tt.url)
			assert.True(t, errors.Is(err, ErrMediaResolution))
		})
	}
}
