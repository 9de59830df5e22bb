package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaRef_Kind(t *testing.T) {
	tests := []struct {
		name     string
		media    MediaRef
		expected MediaKind
	}{
		{
			name:     "no media",
			media:    MediaRef{},
			expected: MediaNone,
		},
		{
			name:     "video only",
			media:    MediaRef{VideoURL: "https://youtu.be/abc123"},
			expected: MediaVideo,
		},
		{
			name:     "audio only",
			media:    MediaRef{AudioURL: "/media/set.mp3"},
			expected: MediaAudio,
		},
		{
			name:     "video wins over audio",
			media:    MediaRef{VideoURL: "https://youtu.be/abc123", AudioURL: "/media/set.mp3"},
			expected: MediaVideo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.media.Kind())
		})
	}
}

func TestEvent_HasTag(t *testing.T) {
	ev := &Event{Tags: []string{"Electro Swing", "Soirée"}}

	assert.True(t, ev.HasTag("electro-swing"))
	assert.True(t, ev.HasTag("soiree"))
	assert.False(t, ev.HasTag("rock"))
	assert.Equal(t, "Electro Swing", ev.TagName("electro-swing"))
	assert.Equal(t, "", ev.TagName("rock"))
}

func TestEvent_DescriptionFor(t *testing.T) {
	ev := &Event{Description: "desc fr", DescriptionEN: "desc en"}

	assert.Equal(t, "desc fr", ev.DescriptionFor("fr"))
	assert.Equal(t, "desc en", ev.DescriptionFor("en"))

	noEN := &Event{Description: "desc fr"}
	assert.Equal(t, "desc fr", noEN.DescriptionFor("en"))
}

func TestEvent_Thumbnail(t *testing.T) {
	withThumb := &Event{Image: "big.jpg", ImageThumbnail: "small.jpg"}
	assert.Equal(t, "small.jpg", withThumb.Thumbnail())

	without := &Event{Image: "big.jpg"}
	assert.Equal(t, "big.jpg", without.Thumbnail())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusScheduled.Valid())
	assert.True(t, StatusMovedOnline.Valid())
	assert.False(t, Status("unknown").Valid())
	assert.False(t, Status("").Valid())
}
