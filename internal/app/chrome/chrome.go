// Package chrome drives the shared UI furniture around the feed: the
// playback control bar and the auto-hiding top bar.
package chrome

import (
	"fmt"
	"sync"
	"time"

	"github.com/delmas/festfeed/internal/app/engine"
	"github.com/delmas/festfeed/internal/app/hooks"
)

// tickInterval is the control bar refresh period while visible.
const tickInterval = 200 * time.Millisecond

// ControlBar mirrors the active player's position into periodic
// control-bar updates and maps scrubber input back to seeks.
type ControlBar struct {
	eng   *engine.Engine
	hooks *hooks.Manager

	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

// NewControlBar creates a stopped control bar.
func NewControlBar(eng *engine.Engine, h *hooks.Manager) *ControlBar {
	return &ControlBar{eng: eng, hooks: h}
}

// Start begins the refresh loop. Starting a running bar is a no-op.
func (b *ControlBar) Start() {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return
	}
	b.running = true
	b.stop = make(chan struct{})
	stop := b.stop
	b.mu.Unlock()

	go b.loop(stop)
}

// Stop ends the refresh loop and hides the bar.
func (b *ControlBar) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	close(b.stop)
	b.mu.Unlock()

	b.hooks.Emit(hooks.Event{Kind: hooks.KindControlBar, Visible: false})
}

func (b *ControlBar) loop(stop chan struct{}) {
	t := time.NewTicker(tickInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			b.tick()
		}
	}
}

// tick emits one control-bar update. With no playable active card the
// bar hides instead.
func (b *ControlBar) tick() {
	p := b.eng.ActivePlayer()
	if p == nil {
		b.hooks.Emit(hooks.Event{Kind: hooks.KindControlBar, Visible: false})
		return
	}
	b.hooks.Emit(hooks.Event{
		Kind:     hooks.KindControlBar,
		EventID:  p.EventID(),
		Position: p.CurrentTime(),
		Duration: p.Duration(),
		Visible:  true,
	})
}

// SeekFraction moves the active player to a fraction of its duration,
// the scrubber's input model. Out-of-range fractions clamp.
func (b *ControlBar) SeekFraction(f float64) {
	p := b.eng.ActivePlayer()
	if p == nil {
		return
	}
	d := p.Duration()
	if d <= 0 {
		return
	}
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	p.Seek(f * d)
}

// FormatTime renders seconds as m:ss for the control bar labels.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// TopBar auto-hides the menu bar a few seconds after playback starts
// and brings it back on pause or on explicit reveal.
type TopBar struct {
	hooks *hooks.Manager
	delay time.Duration

	mu         sync.Mutex
	autoHide   bool
	visible    bool
	hideCancel func()
	subID      string
}

// NewTopBar creates a visible top bar. With autoHide off it never
// hides on its own.
func NewTopBar(h *hooks.Manager, autoHide bool, delay time.Duration) *TopBar {
	t := &TopBar{hooks: h, delay: delay, autoHide: autoHide, visible: true}
	t.subID = h.Subscribe(t.onHook)
	return t
}

// Close detaches the top bar from the hook stream.
func (t *TopBar) Close() {
	t.hooks.Unsubscribe(t.subID)
	t.mu.Lock()
	if t.hideCancel != nil {
		t.hideCancel()
		t.hideCancel = nil
	}
	t.mu.Unlock()
}

// Visible reports the current top bar visibility.
func (t *TopBar) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Reveal shows the bar immediately and re-arms the hide timer if
// auto-hide applies.
func (t *TopBar) Reveal() {
	t.setVisible(true)
	t.mu.Lock()
	rearm := t.autoHide
	t.mu.Unlock()
	if rearm {
		t.armHide()
	}
}

func (t *TopBar) onHook(e hooks.Event) {
	if e.Kind != hooks.KindCardState {
		return
	}
	switch e.Class {
	case "playing":
		t.mu.Lock()
		autoHide := t.autoHide
		t.mu.Unlock()
		if autoHide {
			t.armHide()
		}
	case "paused", "ended", "error":
		t.cancelHide()
		t.setVisible(true)
	}
}

func (t *TopBar) armHide() {
	t.mu.Lock()
	if t.hideCancel != nil {
		t.hideCancel()
	}
	timer := time.AfterFunc(t.delay, func() { t.setVisible(false) })
	t.hideCancel = func() { timer.Stop() }
	t.mu.Unlock()
}

func (t *TopBar) cancelHide() {
	t.mu.Lock()
	if t.hideCancel != nil {
		t.hideCancel()
		t.hideCancel = nil
	}
	t.mu.Unlock()
}

func (t *TopBar) setVisible(v bool) {
	t.mu.Lock()
	if t.visible == v {
		t.mu.Unlock()
		return
	}
	t.visible = v
	t.mu.Unlock()

	t.hooks.Emit(hooks.Event{Kind: hooks.KindMenuBar, Visible: v})
}
