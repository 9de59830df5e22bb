// Package viewport turns host visibility observations into focus
// transitions. The render host reports how much of each card or
// section intersects the viewport; the tracker decides which one owns
// the focus and tells the engine.
package viewport

import (
	"sync"

	"github.com/delmas/festfeed/internal/app/hooks"
)

// FocusThreshold is the visible ratio at which a card takes focus.
const FocusThreshold = 0.6

// Focuser is the engine surface the tracker drives.
type Focuser interface {
	FocusCard(id int)
	FocusSection(name string)
	Blur(id int)
}

// Observation is one visibility report from the render host. Either
// CardID or Section is set, never both.
type Observation struct {
	CardID  int
	Section string
	Ratio   float64
}

// Tracker keeps the per-target visibility ratios and derives the
// focused target from them.
type Tracker struct {
	focuser Focuser
	hooks   *hooks.Manager

	mu       sync.Mutex
	ratios   map[int]float64
	focused  int
	section  string
	onChange func()
}

// New creates a tracker driving the given focuser.
func New(f Focuser, h *hooks.Manager) *Tracker {
	return &Tracker{
		focuser: f,
		hooks:   h,
		ratios:  make(map[int]float64),
	}
}

// SetOnChange installs a callback invoked after every focus change,
// used to refresh the address bar projection.
func (t *Tracker) SetOnChange(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Focused returns the currently focused card id, 0 when a section or
// nothing holds the focus.
func (t *Tracker) Focused() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focused
}

// Observe ingests one visibility report. A card crossing the
// threshold takes the focus from the previous holder; the card that
// loses it gets its description collapsed and its playback paused.
func (t *Tracker) Observe(o Observation) {
	if o.Section != "" {
		t.observeSection(o)
		return
	}
	if o.CardID == 0 {
		return
	}

	t.mu.Lock()
	t.ratios[o.CardID] = o.Ratio

	var (
		gained, lost int
		blurred      int
	)
	switch {
	case o.Ratio >= FocusThreshold && t.focused != o.CardID:
		lost = t.focused
		gained = o.CardID
		t.focused = o.CardID
		t.section = ""
	case o.Ratio < FocusThreshold && t.focused == o.CardID:
		// The focused card left without a successor crossing the
		// threshold yet. Keep it focused but pause once fully gone.
		if o.Ratio == 0 {
			blurred = o.CardID
			t.focused = 0
		}
	}
	onChange := t.onChange
	t.mu.Unlock()

	if gained != 0 {
		t.focuser.FocusCard(gained)
		if lost != 0 {
			t.hooks.Emit(hooks.Event{Kind: hooks.KindCollapseDesc, EventID: lost})
		}
	}
	if blurred != 0 {
		t.focuser.Blur(blurred)
		t.hooks.Emit(hooks.Event{Kind: hooks.KindCollapseDesc, EventID: blurred})
	}
	if (gained != 0 || blurred != 0) && onChange != nil {
		onChange()
	}
}

func (t *Tracker) observeSection(o Observation) {
	t.mu.Lock()
	var (
		gained  string
		blurred int
	)
	if o.Ratio >= FocusThreshold && t.section != o.Section {
		blurred = t.focused
		t.focused = 0
		t.section = o.Section
		gained = o.Section
	}
	onChange := t.onChange
	t.mu.Unlock()

	if gained == "" {
		return
	}
	t.focuser.FocusSection(gained)
	if blurred != 0 {
		t.hooks.Emit(hooks.Event{Kind: hooks.KindCollapseDesc, EventID: blurred})
	}
	if onChange != nil {
		onChange()
	}
}

// Section returns the focused section name, empty when a card holds
// the focus.
func (t *Tracker) Section() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.section
}
