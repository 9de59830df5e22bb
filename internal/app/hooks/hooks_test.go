package hooks

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_SubscribeEmitUnsubscribe(t *testing.T) {
	m := NewManager(0)

	var mu sync.Mutex
	var got []Event
	id := m.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	})

	m.Emit(Event{Kind: KindCardFocused, EventID: 7})
	m.Emit(Event{Kind: KindCloseDrawers})

	mu.Lock()
	assert.Len(t, got, 2)
	assert.Equal(t, KindCardFocused, got[0].Kind)
	assert.Equal(t, 7, got[0].EventID)
	mu.Unlock()

	m.Unsubscribe(id)
	m.Emit(Event{Kind: KindToast})

	mu.Lock()
	assert.Len(t, got, 2)
	mu.Unlock()
}

func TestManager_MultipleSubscribers(t *testing.T) {
	m := NewManager(0)

	var mu sync.Mutex
	count := 0
	for i := 0; i < 3; i++ {
		m.Subscribe(func(Event) {
			mu.Lock()
			defer mu.Unlock()
			count++
		})
	}

	m.Emit(Event{Kind: KindRenderTimeline})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, count)
}

func TestManager_ToastAutoHide(t *testing.T) {
	m := NewManager(20 * time.Millisecond)

	hidden := make(chan struct{}, 1)
	m.Subscribe(func(e Event) {
		if e.Kind == KindToastHide {
			select {
			case hidden <- struct{}{}:
			default:
			}
		}
	})

	m.ShowToast("saved")

	select {
	case <-hidden:
	case <-time.After(time.Second):
		t.Fatal("toast was never hidden")
	}
}

func TestManager_ToastRescheduleCancelsPending(t *testing.T) {
	m := NewManager(30 * time.Millisecond)

	var mu sync.Mutex
	hides := 0
	m.Subscribe(func(e Event) {
		if e.Kind == KindToastHide {
			mu.Lock()
			defer mu.Unlock()
			hides++
		}
	})

	m.ShowToast("first")
	time.Sleep(10 * time.Millisecond)
	m.ShowToast("second")

	time.Sleep(60 * time.Millisecond)

	// Only the second toast's hide fired.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hides)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "card_focused", KindCardFocused.String())
	assert.Equal(t, "toast", KindToast.String())
	assert.NotEmpty(t, KindPlayerError.String())
}
