package player

import (
	"sync"
	"time"
)

// SimElement is a clock-driven Element. Position advances in real time
// while playing and an end transition fires when the duration elapses.
// It backs the playback simulator and the test suites.
type SimElement struct {
	mu        sync.Mutex
	notify    func(State)
	duration  float64
	position  float64
	playing   bool
	ended     bool
	muted     bool
	playedAt  time.Time
	endCancel func()
	failPlay  bool
}

// NewSimElement creates a stopped element with the given duration in
// seconds. A zero duration means unknown length; such an element never
// ends on its own.
func NewSimElement(duration float64, notify func(State)) *SimElement {
	return &SimElement{notify: notify, duration: duration}
}

// FailPlayback makes every subsequent Play call return an error. Used
// to exercise error quarantine paths.
func (e *SimElement) FailPlayback() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failPlay = true
}

func (e *SimElement) Play() error {
	e.mu.Lock()
	if e.failPlay {
		e.mu.Unlock()
		return ErrMediaResolution
	}
	if e.playing {
		e.mu.Unlock()
		return nil
	}
	if e.ended {
		e.position = 0
		e.ended = false
	}
	e.playing = true
	e.playedAt = time.Now()
	e.scheduleEndLocked()
	notify := e.notify
	e.mu.Unlock()

	if notify != nil {
		notify(StatePlaying)
	}
	return nil
}

func (e *SimElement) Pause() {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	e.position = e.positionLocked()
	e.playing = false
	if e.endCancel != nil {
		e.endCancel()
		e.endCancel = nil
	}
	notify := e.notify
	e.mu.Unlock()

	if notify != nil {
		notify(StatePaused)
	}
}

func (e *SimElement) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
}

// Muted reports the mute flag applied by the owning player.
func (e *SimElement) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

func (e *SimElement) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

func (e *SimElement) Length() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *SimElement) Seek(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.duration > 0 && seconds > e.duration {
		seconds = e.duration
	}
	e.position = seconds
	e.ended = false
	if e.playing {
		e.playedAt = time.Now()
		e.scheduleEndLocked()
	}
}

// FinishNow forces an immediate end transition, letting tests trigger
// auto-advance without waiting for the media clock.
func (e *SimElement) FinishNow() {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	if e.endCancel != nil {
		e.endCancel()
		e.endCancel = nil
	}
	e.playing = false
	e.ended = true
	e.position = e.duration
	notify := e.notify
	e.mu.Unlock()

	if notify != nil {
		notify(StateEnded)
	}
}

func (e *SimElement) positionLocked() float64 {
	pos := e.position
	if e.playing {
		pos += time.Since(e.playedAt).Seconds()
	}
	if e.duration > 0 && pos > e.duration {
		pos = e.duration
	}
	return pos
}

// scheduleEndLocked arms the end timer for the remaining playtime.
// Cancels any previous timer first. Caller holds the lock.
func (e *SimElement) scheduleEndLocked() {
	if e.endCancel != nil {
		e.endCancel()
		e.endCancel = nil
	}
	if e.duration <= 0 {
		return
	}
	remaining := e.duration - e.position
	if remaining <= 0 {
		remaining = 0
	}
	t := time.AfterFunc(time.Duration(remaining*float64(time.Second)), e.FinishNow)
	e.endCancel = func() { t.Stop() }
}

// SimFactory builds SimElements and remembers them by event order of
// creation so tests can drive individual instances.
type SimFactory struct {
	mu       sync.Mutex
	elements []*SimElement
}

// NewSimFactory creates an empty factory.
func NewSimFactory() *SimFactory {
	return &SimFactory{}
}

func (f *SimFactory) NewVideoElement(spec VideoSpec, durationHint float64, notify func(State)) (Element, error) {
	e := NewSimElement(durationHint, notify)
	if spec.Start > 0 {
		e.position = float64(spec.Start)
	}
	f.track(e)
	return e, nil
}

func (f *SimFactory) NewAudioElement(url string, durationHint float64, notify func(State)) (Element, error) {
	e := NewSimElement(durationHint, notify)
	f.track(e)
	return e, nil
}

func (f *SimFactory) track(e *SimElement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elements = append(f.elements, e)
}

// Elements returns the elements created so far, in creation order.
func (f *SimFactory) Elements() []*SimElement {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*SimElement, len(f.elements))
	copy(out, f.elements)
	return out
}

// Last returns the most recently created element, nil when none exist.
func (f *SimFactory) Last() *SimElement {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.elements) == 0 {
		return nil
	}
	return f.elements[len(f.elements)-1]
}
