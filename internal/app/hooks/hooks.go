// Package hooks provides the callback boundary between the playback
// core and its render host. The core never renders markup; it emits
// typed events and the host subscribes to them.
package hooks

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind represents a hook event kind.
type Kind int

const (
	KindCardFocused     Kind = iota // A card became the focused card
	KindSectionFocused              // A non-card section became focused
	KindCardState                   // A card's playback class changed
	KindCollapseDesc                // A card left focus, collapse its description
	KindRenderFavorites             // Favorites list membership changed
	KindRenderTimeline              // Timeline list contents changed
	KindRenderFilterBar             // Tag/favorites filter bars changed
	KindCloseDrawers                // All drawers must close
	KindOpenDrawer                  // The favorites drawer should open
	KindToast                       // Show a toast message
	KindToastHide                   // Hide the toast
	KindURLChanged                  // The canonical URL changed
	KindControlBar                  // Control bar position/duration update
	KindMenuBar                     // Top bar visibility changed
	KindPlayerError                 // A card's player failed unrecoverably
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindCardFocused:
		return "card_focused"
	case KindSectionFocused:
		return "section_focused"
	case KindCardState:
		return "card_state"
	case KindCollapseDesc:
		return "collapse_desc"
	case KindRenderFavorites:
		return "render_favorites"
	case KindRenderTimeline:
		return "render_timeline"
	case KindRenderFilterBar:
		return "render_filter_bar"
	case KindCloseDrawers:
		return "close_drawers"
	case KindOpenDrawer:
		return "open_drawer"
	case KindToast:
		return "toast"
	case KindToastHide:
		return "toast_hide"
	case KindURLChanged:
		return "url_changed"
	case KindControlBar:
		return "control_bar"
	case KindMenuBar:
		return "menu_bar"
	case KindPlayerError:
		return "player_error"
	default:
		return "unknown"
	}
}

// Event represents a hook event. Fields are populated per kind.
type Event struct {
	Kind     Kind
	EventID  int     // Card id, when the event concerns a card
	Section  string  // Section name for KindSectionFocused
	Class    string  // Playback class for KindCardState: playing, paused, ended, error
	Message  string  // Toast message
	URL      string  // Canonical URL for KindURLChanged
	Position float64 // Seconds, for KindControlBar
	Duration float64 // Seconds, for KindControlBar
	Visible  bool    // For KindMenuBar and KindControlBar visibility
}

// Func receives hook events.
type Func func(Event)

// Manager broadcasts hook events to subscribers.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]Func

	toastHide   time.Duration
	toastCancel func()
}

// NewManager creates a hook manager. toastHide is the toast auto-hide
// delay; zero disables auto-hide.
func NewManager(toastHide time.Duration) *Manager {
	return &Manager{
		subscriptions: make(map[string]Func),
		toastHide:     toastHide,
	}
}

// Subscribe adds a subscriber and returns its subscription id.
func (m *Manager) Subscribe(fn Func) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = fn
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, id)
}

// Emit broadcasts an event to all subscribers.
func (m *Manager) Emit(e Event) {
	m.mu.RLock()
	subs := make([]Func, 0, len(m.subscriptions))
	for _, fn := range m.subscriptions {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}

// ShowToast emits a toast and schedules its auto-hide. Only the most
// recent scheduling is honored: an earlier pending hide is cancelled
// before the new one is armed.
func (m *Manager) ShowToast(message string) {
	m.Emit(Event{Kind: KindToast, Message: message})

	m.mu.Lock()
	if m.toastCancel != nil {
		m.toastCancel()
		m.toastCancel = nil
	}
	if m.toastHide > 0 {
		t := time.AfterFunc(m.toastHide, func() {
			m.mu.Lock()
			m.toastCancel = nil
			m.mu.Unlock()
			m.Emit(Event{Kind: KindToastHide})
		})
		m.toastCancel = func() { t.Stop() }
	}
	m.mu.Unlock()
}
