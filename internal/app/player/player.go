package player

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/delmas/festfeed/internal/domain/event"
)

// ErrNoMedia indicates an event with no media reference; no player
// instance is created for it.
var ErrNoMedia = errors.New("event has no media")

// Element is the minimal surface of a host-provided backing media
// element. It reports state transitions through the notify callback
// passed at construction, using the shared State model.
type Element interface {
	Play() error
	Pause()
	SetMuted(muted bool)
	Position() float64
	Length() float64
	Seek(seconds float64)
}

// ElementFactory creates backing elements. The render host supplies a
// real implementation; SimFactory drives simulations and tests.
type ElementFactory interface {
	// NewVideoElement creates an element for a resolved video reference.
	NewVideoElement(spec VideoSpec, durationHint float64, notify func(State)) (Element, error)
	// NewAudioElement creates an element wrapping a local audio source.
	NewAudioElement(url string, durationHint float64, notify func(State)) (Element, error)
}

// Player adapts one backing element to the uniform capability surface
// the engine consumes. The engine never learns which backend it is
// talking to.
type Player struct {
	eventID int
	kind    event.MediaKind
	elem    Element

	mu       sync.Mutex
	state    State
	onChange func(id int, s State)
}

// New creates a player for an event's media reference. It returns
// ErrNoMedia for image-only events and ErrMediaResolution when a video
// URL yields no playable id. The global mute flag is applied at
// creation. onChange is invoked on every state transition.
func New(ev *event.Event, factory ElementFactory, muted bool, onChange func(id int, s State)) (*Player, error) {
	p := &Player{
		eventID:  ev.ID,
		kind:     ev.Media.Kind(),
		state:    StateUnstarted,
		onChange: onChange,
	}

	var (
		elem Element
		err  error
	)
	switch p.kind {
	case event.MediaVideo:
		spec, rerr := ResolveVideoURL(ev.Media.VideoURL)
		if rerr != nil {
			return nil, rerr
		}
		elem, err = factory.NewVideoElement(spec, ev.Media.Duration, p.handleElementState)
	case event.MediaAudio:
		elem, err = factory.NewAudioElement(ev.Media.AudioURL, ev.Media.Duration, p.handleElementState)
	default:
		return nil, ErrNoMedia
	}
	if err != nil {
		return nil, errors.Wrapf(err, "creating element for event %d", ev.ID)
	}

	p.elem = elem
	elem.SetMuted(muted)
	return p, nil
}

// EventID returns the owning event id.
func (p *Player) EventID() int {
	return p.eventID
}

// Kind returns the backing media kind.
func (p *Player) Kind() event.MediaKind {
	return p.kind
}

// handleElementState records the element-reported state and forwards
// it. Repeated reports of the current state are dropped so play/pause
// on an already-playing/paused instance stays observably a no-op.
func (p *Player) handleElementState(s State) {
	p.mu.Lock()
	if p.state == s || p.state == StateError {
		p.mu.Unlock()
		return
	}
	p.state = s
	onChange := p.onChange
	p.mu.Unlock()

	if onChange != nil {
		onChange(p.eventID, s)
	}
}

// Play starts or resumes playback. Playing an already-playing
// instance is a no-op. A failed start is an unrecoverable playback
// error: the player enters StateError and is never retried.
func (p *Player) Play() {
	p.mu.Lock()
	if p.state == StatePlaying || p.state == StateError {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	if err := p.elem.Play(); err != nil {
		p.handleElementState(StateError)
	}
}

// Pause pauses playback. Pausing a paused, ended or never-started
// instance is a no-op.
func (p *Player) Pause() {
	p.mu.Lock()
	if p.state != StatePlaying {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.elem.Pause()
}

// SetMuted applies the global mute flag to the backing element.
func (p *Player) SetMuted(muted bool) {
	p.elem.SetMuted(muted)
}

// IsPlaying reports whether the instance is currently playing.
func (p *Player) IsPlaying() bool {
	return p.State() == StatePlaying
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// CurrentTime returns the playback position in seconds.
func (p *Player) CurrentTime() float64 {
	return p.elem.Position()
}

// Duration returns the media duration in seconds, 0 if unknown.
func (p *Player) Duration() float64 {
	return p.elem.Length()
}

// Seek moves the playback position. Errored players ignore seeks.
func (p *Player) Seek(seconds float64) {
	if p.State() == StateError {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	p.elem.Seek(seconds)
}
