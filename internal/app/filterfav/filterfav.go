// Package filterfav owns the two list-narrowing modes of the feed: a
// single-tag filter and favorites playback. The two are mutually
// exclusive; activating one clears the other.
package filterfav

import (
	"fmt"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/delmas/festfeed/internal/app/engine"
	"github.com/delmas/festfeed/internal/app/hooks"
	"github.com/delmas/festfeed/internal/domain/catalog"
	"github.com/delmas/festfeed/internal/infra/storage"
)

// Texts carries the user-facing toast strings, localized by the
// caller.
type Texts struct {
	FavoriteAdded   string
	FavoriteRemoved string
	NoFavorites     string
}

// DefaultTextsFR returns the French toast strings.
func DefaultTextsFR() Texts {
	return Texts{
		FavoriteAdded:   "Ajouté aux favoris",
		FavoriteRemoved: "Retiré des favoris",
		NoFavorites:     "Aucun favori pour le moment",
	}
}

// DefaultTextsEN returns the English toast strings.
func DefaultTextsEN() Texts {
	return Texts{
		FavoriteAdded:   "Added to favorites",
		FavoriteRemoved: "Removed from favorites",
		NoFavorites:     "No favorites yet",
	}
}

// Controller tracks the favorites set, the active tag filter and the
// favorites playback mode. It implements engine.Sequencer so that
// while favorites playback runs, auto-advance walks the favorites
// list instead of the full catalog.
type Controller struct {
	cat   *catalog.Catalog
	eng   *engine.Engine
	store *storage.FavoritesStore
	hooks *hooks.Manager
	texts Texts

	drawerClose time.Duration

	mu           sync.Mutex
	favorites    []int
	filterSlug   string
	favMode      bool
	drawerCancel func()
	onChange     func()
}

// New creates a controller and restores the persisted favorites set,
// dropping ids that no longer exist in the catalog.
func New(cat *catalog.Catalog, eng *engine.Engine, store *storage.FavoritesStore, h *hooks.Manager, texts Texts, drawerClose time.Duration) *Controller {
	c := &Controller{
		cat:         cat,
		eng:         eng,
		store:       store,
		hooks:       h,
		texts:       texts,
		drawerClose: drawerClose,
	}
	for _, id := range store.Load() {
		if cat.Contains(id) {
			c.favorites = append(c.favorites, id)
		}
	}
	return c
}

// SetOnChange installs a callback invoked after every filter or
// favorites change, used to refresh the address bar projection.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Favorites returns a copy of the favorites set in insertion order.
func (c *Controller) Favorites() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.favorites))
	copy(out, c.favorites)
	return out
}

// IsFavorite reports membership of one event.
func (c *Controller) IsFavorite(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(id) >= 0
}

// FilterSlug returns the active tag filter, empty when none.
func (c *Controller) FilterSlug() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filterSlug
}

// FavoritesMode reports whether favorites playback is active.
func (c *Controller) FavoritesMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.favMode
}

// VisibleIDs returns the ids the feed currently shows: the favorites
// list in favorites mode, the matching cards under a tag filter, the
// full catalog otherwise.
func (c *Controller) VisibleIDs() []int {
	c.mu.Lock()
	favMode := c.favMode
	slug := c.filterSlug
	c.mu.Unlock()

	if favMode {
		return c.Favorites()
	}
	if slug != "" {
		var ids []int
		for _, ev := range c.cat.MatchingTag(slug) {
			ids = append(ids, ev.ID)
		}
		return ids
	}
	return c.cat.IDs()
}

// ToggleFavorite adds or removes an event from the favorites set and
// persists it. A toast announces the change. Adding a favorite outside
// favorites playback opens the drawer so the grown list is seen, then
// closes it shortly after. Playback is never interrupted.
func (c *Controller) ToggleFavorite(id int) {
	if !c.cat.Contains(id) {
		return
	}

	c.mu.Lock()
	var msg string
	added := false
	if i := c.indexOf(id); i >= 0 {
		c.favorites = append(c.favorites[:i], c.favorites[i+1:]...)
		msg = c.texts.FavoriteRemoved
	} else {
		c.favorites = append(c.favorites, id)
		msg = c.texts.FavoriteAdded
		added = true
	}
	favs := make([]int, len(c.favorites))
	copy(favs, c.favorites)
	openDrawer := added && !c.favMode
	if openDrawer {
		if c.drawerCancel != nil {
			c.drawerCancel()
		}
		t := time.AfterFunc(c.drawerClose, func() {
			c.hooks.Emit(hooks.Event{Kind: hooks.KindCloseDrawers})
		})
		c.drawerCancel = func() { t.Stop() }
	}
	onChange := c.onChange
	c.mu.Unlock()

	if err := c.store.Save(favs); err != nil {
		zlog.Warn().Err(err).Msg("persisting favorites")
	}
	if openDrawer {
		c.hooks.Emit(hooks.Event{Kind: hooks.KindOpenDrawer})
	}
	c.hooks.ShowToast(msg)
	c.hooks.Emit(hooks.Event{Kind: hooks.KindRenderFavorites})
	if onChange != nil {
		onChange()
	}
}

// SetTagFilter activates a tag filter by slug. Re-applying the active
// slug removes the filter. Favorites playback mode ends either way.
// When the active card does not carry the new tag, the first matching
// card scrolls into view without starting playback.
func (c *Controller) SetTagFilter(slug string) {
	c.mu.Lock()
	if c.filterSlug == slug {
		slug = ""
	}
	c.filterSlug = slug
	wasFavMode := c.favMode
	c.favMode = false
	onChange := c.onChange
	c.mu.Unlock()

	if wasFavMode {
		c.eng.SetSequencer(nil)
	}
	c.hooks.Emit(hooks.Event{Kind: hooks.KindRenderFilterBar})
	c.hooks.Emit(hooks.Event{Kind: hooks.KindRenderTimeline})
	if slug != "" {
		if target, ok := c.filterScrollTarget(slug); ok {
			c.eng.ScrollTo(target, false)
		}
	}
	if onChange != nil {
		onChange()
	}
}

// filterScrollTarget returns the first card matching the slug, unless
// the active card already matches or nothing does.
func (c *Controller) filterScrollTarget(slug string) (int, bool) {
	matches := c.cat.MatchingTag(slug)
	if len(matches) == 0 {
		return 0, false
	}
	active := c.eng.ActiveID()
	for _, ev := range matches {
		if ev.ID == active {
			return 0, false
		}
	}
	return matches[0].ID, true
}

// ClearTagFilter removes the active tag filter.
func (c *Controller) ClearTagFilter() {
	c.mu.Lock()
	if c.filterSlug == "" {
		c.mu.Unlock()
		return
	}
	c.filterSlug = ""
	onChange := c.onChange
	c.mu.Unlock()

	c.hooks.Emit(hooks.Event{Kind: hooks.KindRenderFilterBar})
	c.hooks.Emit(hooks.Event{Kind: hooks.KindRenderTimeline})
	if onChange != nil {
		onChange()
	}
}

// FilterLabel returns the display name of the active filter tag.
func (c *Controller) FilterLabel() string {
	c.mu.Lock()
	slug := c.filterSlug
	c.mu.Unlock()
	if slug == "" {
		return ""
	}
	if name := c.cat.TagNameFromSlug(slug); name != "" {
		return name
	}
	return slug
}

// PlayFavorites enters favorites playback: the feed narrows to the
// favorites list, the tag filter clears, and the first favorite
// scrolls into view and plays. With an empty set only a toast shows.
func (c *Controller) PlayFavorites() {
	c.mu.Lock()
	if len(c.favorites) == 0 {
		c.mu.Unlock()
		c.hooks.ShowToast(c.texts.NoFavorites)
		return
	}
	first := c.favorites[0]
	c.favMode = true
	c.filterSlug = ""
	onChange := c.onChange
	c.mu.Unlock()

	c.eng.SetSequencer(c)
	c.hooks.Emit(hooks.Event{Kind: hooks.KindRenderFilterBar})
	c.hooks.Emit(hooks.Event{Kind: hooks.KindRenderTimeline})
	c.eng.ScrollTo(first, true)
	if onChange != nil {
		onChange()
	}
}

// ExitFavoritesMode restores the full feed without touching the
// favorites set or current playback.
func (c *Controller) ExitFavoritesMode() {
	c.mu.Lock()
	if !c.favMode {
		c.mu.Unlock()
		return
	}
	c.favMode = false
	onChange := c.onChange
	c.mu.Unlock()

	c.eng.SetSequencer(nil)
	c.hooks.Emit(hooks.Event{Kind: hooks.KindRenderFilterBar})
	c.hooks.Emit(hooks.Event{Kind: hooks.KindRenderTimeline})
	if onChange != nil {
		onChange()
	}
}

// CancelFilters drops both narrowing modes at once, the action behind
// the filter bar's close control.
func (c *Controller) CancelFilters() {
	c.ExitFavoritesMode()
	c.ClearTagFilter()
}

// CardTapped is called before the engine handles a tap on a card.
// Tapping a card outside the favorites set while favorites playback
// is active exits the mode, so the full feed is back when the tapped
// card starts.
func (c *Controller) CardTapped(id int) {
	c.mu.Lock()
	exit := c.favMode && c.indexOf(id) < 0
	c.mu.Unlock()
	if exit {
		c.ExitFavoritesMode()
	}
}

// NextAfter implements engine.Sequencer over the favorites list.
// Falls back to the full catalog when favorites mode is off or the
// ended card is not a favorite.
func (c *Controller) NextAfter(id int, loop bool) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.favMode || len(c.favorites) == 0 {
		return c.cat.Next(id, loop)
	}
	i := c.indexOf(id)
	if i < 0 {
		return c.favorites[0], true
	}
	if i == len(c.favorites)-1 {
		if !loop {
			return 0, false
		}
		return c.favorites[0], true
	}
	return c.favorites[i+1], true
}

// RestoreFavorites merges ids from an entry URL into the set, keeping
// only ids present in the catalog, and persists the union. Favorites
// already stored on this device survive a shared link.
func (c *Controller) RestoreFavorites(ids []int) {
	c.mu.Lock()
	merged := make([]int, len(c.favorites))
	copy(merged, c.favorites)
	for _, id := range ids {
		if !c.cat.Contains(id) {
			continue
		}
		dup := false
		for _, v := range merged {
			if v == id {
				dup = true
				break
			}
		}
		if !dup {
			merged = append(merged, id)
		}
	}
	c.favorites = merged
	c.mu.Unlock()

	if err := c.store.Save(merged); err != nil {
		zlog.Warn().Err(err).Msg("persisting favorites")
	}
	c.hooks.Emit(hooks.Event{Kind: hooks.KindRenderFavorites})
}

func (c *Controller) indexOf(id int) int {
	for i, v := range c.favorites {
		if v == id {
			return i
		}
	}
	return -1
}

// String describes the controller state for logs.
func (c *Controller) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("favorites=%d filter=%q favMode=%t", len(c.favorites), c.filterSlug, c.favMode)
}
