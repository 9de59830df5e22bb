// Package engine drives card playback for the feed: a single active
// card at a time, pause on blur, tap to toggle, auto-advance when
// media ends and programmatic scrolling with suppression windows.
package engine

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/delmas/festfeed/internal/app/hooks"
	"github.com/delmas/festfeed/internal/app/player"
	"github.com/delmas/festfeed/internal/domain/catalog"
)

// Recorder counts playback activity. The metrics registry implements
// it; tests pass a stub.
type Recorder interface {
	IncPlayStarts()
	IncAutoAdvances()
	IncPlayerErrors()
	SetActiveCard(id int)
}

// Scroller executes a scroll request in the render host. The engine
// only decides when to scroll and to which card.
type Scroller interface {
	ScrollTo(id int)
}

// Sequencer picks the card that follows id when its media ends. The
// default is catalog order; the favorites controller installs its own
// while favorites playback is active.
type Sequencer interface {
	NextAfter(id int, loop bool) (next int, ok bool)
}

// Config carries the playback behavior flags and the scroll
// suppression windows.
type Config struct {
	AutoPlayNext   bool
	AutoPlayLoop   bool
	ResumeOnFocus  bool
	ScrollLockPlay time.Duration
	ScrollLockIdle time.Duration
}

// Snapshot is the externally visible engine state.
type Snapshot struct {
	ActiveID      int
	ActiveSection string
	Muted         bool
}

// Engine owns the player instances and the active-card state.
// State is computed under the lock; element operations and hook
// emissions always run after it is released.
type Engine struct {
	cat     *catalog.Catalog
	factory player.ElementFactory
	hooks   *hooks.Manager
	cfg     Config
	rec     Recorder

	mu         sync.Mutex
	players    map[int]*player.Player
	errored    map[int]bool
	noMedia    map[int]bool
	activeID   int
	activeSect string
	muted      bool
	locked     bool
	lockCancel func()
	scroller   Scroller
	seq        Sequencer
}

// New creates an engine over the catalog. Players are created lazily
// on first focus of their card.
func New(cat *catalog.Catalog, factory player.ElementFactory, h *hooks.Manager, cfg Config, rec Recorder) *Engine {
	return &Engine{
		cat:     cat,
		factory: factory,
		hooks:   h,
		cfg:     cfg,
		rec:     rec,
		players: make(map[int]*player.Player),
		errored: make(map[int]bool),
		noMedia: make(map[int]bool),
	}
}

// SetScroller installs the host scroll executor.
func (e *Engine) SetScroller(s Scroller) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scroller = s
}

// SetSequencer installs the advance order used when media ends. A nil
// sequencer restores catalog order.
func (e *Engine) SetSequencer(s Sequencer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq = s
}

// State returns a copy of the current engine state.
func (e *Engine) State() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{ActiveID: e.activeID, ActiveSection: e.activeSect, Muted: e.muted}
}

// ActiveID returns the focused card id, 0 when none.
func (e *Engine) ActiveID() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeID
}

// ActivePlayer returns the player of the focused card, nil when no
// card is focused or the card has no playable media.
func (e *Engine) ActivePlayer() *player.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeID == 0 {
		return nil
	}
	return e.players[e.activeID]
}

// FocusCard handles a card gaining viewport focus. Observations that
// arrive inside a programmatic scroll window are dropped; the scroll
// issuer already activated its target. Playback carries over to the
// newly focused card only when the previously active card was playing.
func (e *Engine) FocusCard(id int) {
	e.mu.Lock()
	if e.locked || e.activeID == id {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	carryOver := e.cfg.ResumeOnFocus && e.activePlaying()
	e.activate(id, carryOver)
}

// FocusSection handles a non-card section gaining focus. Any active
// card is paused and unfocused.
func (e *Engine) FocusSection(name string) {
	e.mu.Lock()
	if e.locked {
		e.mu.Unlock()
		return
	}
	prev := e.players[e.activeID]
	e.activeID = 0
	e.activeSect = name
	e.mu.Unlock()

	if prev != nil {
		prev.Pause()
	}
	e.rec.SetActiveCard(0)
	e.hooks.Emit(hooks.Event{Kind: hooks.KindSectionFocused, Section: name})
}

// Blur pauses a card that left the viewport without a successor
// focus, for example when scrolled past quickly.
func (e *Engine) Blur(id int) {
	e.mu.Lock()
	p := e.players[id]
	if id == e.activeID {
		e.activeID = 0
	}
	e.mu.Unlock()

	if p != nil {
		p.Pause()
	}
}

// TogglePlayPause handles a tap on a card. A playing card pauses; any
// other card becomes active and plays, pausing whatever played before.
func (e *Engine) TogglePlayPause(id int) {
	e.mu.Lock()
	p := e.players[id]
	e.mu.Unlock()

	if p != nil && p.IsPlaying() {
		p.Pause()
		return
	}
	e.activate(id, true)
}

// PauseAll pauses every instantiated player.
func (e *Engine) PauseAll() {
	for _, p := range e.snapshotPlayers() {
		p.Pause()
	}
}

// SetMuted applies the global mute flag to all players, current and
// future.
func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	e.muted = muted
	e.mu.Unlock()

	for _, p := range e.snapshotPlayers() {
		p.SetMuted(muted)
	}
}

// ToggleMute flips the global mute flag and returns the new value.
func (e *Engine) ToggleMute() bool {
	e.mu.Lock()
	e.muted = !e.muted
	muted := e.muted
	e.mu.Unlock()

	for _, p := range e.snapshotPlayers() {
		p.SetMuted(muted)
	}
	return muted
}

// Muted returns the global mute flag.
func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// ScrollTo scrolls the feed to a card and activates it directly.
// Viewport observations are suppressed for the lock window so the
// cards crossed on the way never steal focus. Open drawers close
// before the scroll starts.
func (e *Engine) ScrollTo(id int, autoPlay bool) {
	window := e.cfg.ScrollLockIdle
	if autoPlay {
		window = e.cfg.ScrollLockPlay
	}

	e.mu.Lock()
	if e.lockCancel != nil {
		e.lockCancel()
	}
	e.locked = true
	t := time.AfterFunc(window, e.unlockScroll)
	e.lockCancel = func() { t.Stop() }
	scroller := e.scroller
	e.mu.Unlock()

	e.hooks.Emit(hooks.Event{Kind: hooks.KindCloseDrawers})
	if scroller != nil {
		scroller.ScrollTo(id)
	}
	e.activate(id, autoPlay)
}

func (e *Engine) unlockScroll() {
	e.mu.Lock()
	e.locked = false
	e.lockCancel = nil
	e.mu.Unlock()
}

// activate makes id the single active card: every other player
// pauses, and when play is set the card's own player starts.
func (e *Engine) activate(id int, play bool) {
	e.mu.Lock()
	e.activeID = id
	e.activeSect = ""
	var others []*player.Player
	for pid, p := range e.players {
		if pid != id {
			others = append(others, p)
		}
	}
	p, err := e.playerLocked(id)
	e.mu.Unlock()

	for _, o := range others {
		o.Pause()
	}
	e.rec.SetActiveCard(id)
	e.hooks.Emit(hooks.Event{Kind: hooks.KindCardFocused, EventID: id})

	if err != nil {
		e.reportPlayerError(id, err)
		return
	}
	if p != nil && play {
		e.rec.IncPlayStarts()
		p.Play()
	}
}

// playerLocked returns the card's player, creating it on first use.
// Cards that previously failed stay quarantined. Caller holds the
// lock.
func (e *Engine) playerLocked(id int) (*player.Player, error) {
	if p, ok := e.players[id]; ok {
		return p, nil
	}
	if e.errored[id] || e.noMedia[id] {
		return nil, nil
	}
	ev, ok := e.cat.ByID(id)
	if !ok {
		return nil, errors.Newf("unknown event id %d", id)
	}
	p, err := player.New(ev, e.factory, e.muted, e.onPlayerState)
	if err != nil {
		if errors.Is(err, player.ErrNoMedia) {
			e.noMedia[id] = true
			return nil, nil
		}
		e.errored[id] = true
		return nil, err
	}
	e.players[id] = p
	return p, nil
}

// onPlayerState receives state transitions from player instances.
// Ended media on the active card triggers auto-advance; errors
// quarantine the card for the rest of the session.
func (e *Engine) onPlayerState(id int, s player.State) {
	e.hooks.Emit(hooks.Event{Kind: hooks.KindCardState, EventID: id, Class: stateClass(s)})

	switch s {
	case player.StateEnded:
		e.mu.Lock()
		active := e.activeID == id
		e.mu.Unlock()
		if active && e.cfg.AutoPlayNext {
			e.advanceFrom(id)
		}
	case player.StateError:
		e.mu.Lock()
		e.errored[id] = true
		delete(e.players, id)
		e.mu.Unlock()
		e.reportPlayerError(id, errors.Newf("playback failed for event %d", id))
	}
}

// advanceFrom moves to the card that follows id, scrolling with the
// longer suppression window and starting playback on arrival.
func (e *Engine) advanceFrom(id int) {
	e.mu.Lock()
	seq := e.seq
	e.mu.Unlock()

	var (
		next int
		ok   bool
	)
	if seq != nil {
		next, ok = seq.NextAfter(id, e.cfg.AutoPlayLoop)
	} else {
		next, ok = e.cat.Next(id, e.cfg.AutoPlayLoop)
	}
	if !ok {
		return
	}
	e.rec.IncAutoAdvances()
	e.ScrollTo(next, true)
}

func (e *Engine) reportPlayerError(id int, err error) {
	zlog.Warn().Err(err).Int("event_id", id).Msg("player unavailable")
	e.rec.IncPlayerErrors()
	e.hooks.Emit(hooks.Event{Kind: hooks.KindPlayerError, EventID: id})
}

func (e *Engine) activePlaying() bool {
	e.mu.Lock()
	p := e.players[e.activeID]
	e.mu.Unlock()
	return p != nil && p.IsPlaying()
}

func (e *Engine) snapshotPlayers() []*player.Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*player.Player, 0, len(e.players))
	for _, p := range e.players {
		out = append(out, p)
	}
	return out
}

func stateClass(s player.State) string {
	switch s {
	case player.StatePlaying:
		return "playing"
	case player.StatePaused:
		return "paused"
	case player.StateEnded:
		return "ended"
	case player.StateError:
		return "error"
	default:
		return ""
	}
}
