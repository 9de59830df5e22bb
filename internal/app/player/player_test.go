package player

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/delmas/festfeed/internal/domain/event"
)

func videoEvent(id int) *event.Event {
	return &event.Event{
		ID:    id,
		Name:  "Video Act",
		Media: event.MediaRef{VideoURL: "https://youtu.be/dQw4w9WgXcQ", Duration: 180},
	}
}

func TestNew_MediaKinds(t *testing.T) {
	factory := NewSimFactory()

	p, err := New(videoEvent(1), factory, false, nil)
	assert.NoError(t, err)
	assert.Equal(t, event.MediaVideo, p.Kind())
	assert.Equal(t, StateUnstarted, p.State())

	p, err = New(&event.Event{ID: 2, Media: event.MediaRef{AudioURL: "/media/set.mp3", Duration: 90}}, factory, false, nil)
	assert.NoError(t, err)
	assert.Equal(t, event.MediaAudio, p.Kind())

	_, err = New(&event.Event{ID: 3}, factory, false, nil)
	assert.True(t, errors.Is(err, ErrNoMedia))

	_, err = New(&event.Event{ID: 4, Media: event.MediaRef{VideoURL: "https://example.com/nope"}}, factory, false, nil)
	assert.True(t, errors.Is(err, ErrMediaResolution))
}

func TestNew_AppliesGlobalMute(t *testing.T) {
	factory := NewSimFactory()

	_, err := New(videoEvent(1), factory, true, nil)
	assert.NoError(t, err)
	assert.True(t, factory.Last().Muted())

	_, err = New(videoEvent(2), factory, false, nil)
	assert.NoError(t, err)
	assert.False(t, factory.Last().Muted())
}

func TestPlayer_PlayPause(t *testing.T) {
	factory := NewSimFactory()
	var transitions []State
	p, err := New(videoEvent(1), factory, false, func(_ int, s State) {
		transitions = append(transitions, s)
	})
	assert.NoError(t, err)

	p.Play()
	assert.True(t, p.IsPlaying())
	assert.Equal(t, StatePlaying, p.State())

	// Playing again is a no-op and reports nothing.
	p.Play()
	assert.Equal(t, []State{StatePlaying}, transitions)

	p.Pause()
	assert.False(t, p.IsPlaying())
	assert.Equal(t, StatePaused, p.State())

	// Pausing again is a no-op.
	p.Pause()
	assert.Equal(t, []State{StatePlaying, StatePaused}, transitions)
}

func TestPlayer_Ended(t *testing.T) {
	factory := NewSimFactory()
	var last State
	p, err := New(videoEvent(1), factory, false, func(_ int, s State) { last = s })
	assert.NoError(t, err)

	p.Play()
	factory.Last().FinishNow()

	assert.Equal(t, StateEnded, p.State())
	assert.Equal(t, StateEnded, last)
	assert.Equal(t, 180.0, p.CurrentTime())

	// Pausing ended media is a no-op.
	p.Pause()
	assert.Equal(t, StateEnded, p.State())
}

func TestPlayer_PlayFailureQuarantines(t *testing.T) {
	factory := NewSimFactory()
	var last State
	p, err := New(videoEvent(1), factory, false, func(_ int, s State) { last = s })
	assert.NoError(t, err)

	factory.Last().FailPlayback()
	p.Play()

	assert.Equal(t, StateError, p.State())
	assert.Equal(t, StateError, last)

	// An errored player never retries.
	p.Play()
	assert.Equal(t, StateError, p.State())
}

func TestPlayer_Seek(t *testing.T) {
	factory := NewSimFactory()
	p, err := New(videoEvent(1), factory, false, nil)
	assert.NoError(t, err)

	p.Seek(30)
	assert.Equal(t, 30.0, p.CurrentTime())

	// Past the end clamps to duration.
	p.Seek(9999)
	assert.Equal(t, 180.0, p.CurrentTime())

	p.Seek(-5)
	assert.Equal(t, 0.0, p.CurrentTime())

	assert.Equal(t, 180.0, p.Duration())
}

func TestSimElement_StartOffset(t *testing.T) {
	factory := NewSimFactory()
	ev := &event.Event{
		ID:    1,
		Media: event.MediaRef{VideoURL: "https://youtu.be/dQw4w9WgXcQ?t=42", Duration: 180},
	}
	p, err := New(ev, factory, false, nil)
	assert.NoError(t, err)
	assert.Equal(t, 42.0, p.CurrentTime())
}
