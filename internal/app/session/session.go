// Package session assembles the feed application: catalog, playback
// engine, viewport tracking, filters and favorites, chrome and URL
// synchronization, wired from one configuration.
package session

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/delmas/festfeed/internal/app/chrome"
	"github.com/delmas/festfeed/internal/app/engine"
	"github.com/delmas/festfeed/internal/app/filterfav"
	"github.com/delmas/festfeed/internal/app/hooks"
	"github.com/delmas/festfeed/internal/app/player"
	"github.com/delmas/festfeed/internal/app/urlstate"
	"github.com/delmas/festfeed/internal/app/viewport"
	"github.com/delmas/festfeed/internal/domain/catalog"
	"github.com/delmas/festfeed/internal/domain/event"
	"github.com/delmas/festfeed/internal/domain/i18n"
	"github.com/delmas/festfeed/internal/infra/config"
	"github.com/delmas/festfeed/internal/infra/feed"
	"github.com/delmas/festfeed/internal/infra/metrics"
	"github.com/delmas/festfeed/internal/infra/storage"
)

// Session is one assembled feed application instance.
type Session struct {
	config     *config.Config
	catalog    *catalog.Catalog
	translator *i18n.Translator
	metrics    *metrics.Metrics

	hooks      *hooks.Manager
	engine     *engine.Engine
	tracker    *viewport.Tracker
	controller *filterfav.Controller
	urlSync    *urlstate.Sync
	controlBar *chrome.ControlBar
	topBar     *chrome.TopBar
}

// New loads the feed and wires every component. The element factory
// is supplied by the caller: the render host's real factory in the
// server, a simulated one in the CLI and tests.
func New(ctx context.Context, cfg *config.Config, factory player.ElementFactory) (*Session, error) {
	cat, err := feed.Load(ctx, cfg.Site.DataSource)
	if err != nil {
		return nil, errors.Wrap(err, "loading feed")
	}
	if cat.Len() == 0 {
		return nil, errors.New("feed contains no valid events")
	}
	return NewWithCatalog(cfg, cat, factory)
}

// NewWithCatalog wires a session over an already-built catalog.
func NewWithCatalog(cfg *config.Config, cat *catalog.Catalog, factory player.ElementFactory) (*Session, error) {
	rec := metrics.New()
	h := hooks.NewManager(time.Duration(cfg.Playback.ToastHideMs) * time.Millisecond)

	eng := engine.New(cat, factory, h, engine.Config{
		AutoPlayNext:   cfg.Settings.AutoPlayNext,
		AutoPlayLoop:   cfg.Settings.AutoPlayLoop,
		ResumeOnFocus:  cfg.Settings.ResumeOnFocus,
		ScrollLockPlay: time.Duration(cfg.Playback.ScrollLockPlayMs) * time.Millisecond,
		ScrollLockIdle: time.Duration(cfg.Playback.ScrollLockIdleMs) * time.Millisecond,
	}, rec)

	tracker := viewport.New(eng, h)

	texts := filterfav.DefaultTextsFR()
	if cfg.Site.Lang == i18n.LangEN {
		texts = filterfav.DefaultTextsEN()
	}
	store := storage.NewFavoritesStore(cfg.Storage.FavoritesPath)
	ctl := filterfav.New(cat, eng, store, h, texts, time.Duration(cfg.Playback.DrawerCloseMs)*time.Millisecond)

	s := &Session{
		config:     cfg,
		catalog:    cat,
		translator: i18n.New(cfg.Site.Lang, cfg.Settings.DisplayYear),
		metrics:    rec,
		hooks:      h,
		engine:     eng,
		tracker:    tracker,
		controller: ctl,
	}

	s.urlSync = urlstate.NewSync(h, s.snapshot)
	tracker.SetOnChange(s.urlSync.Refresh)
	ctl.SetOnChange(func() {
		rec.SetFavorites(len(ctl.Favorites()))
		s.urlSync.Refresh()
	})
	rec.SetFavorites(len(ctl.Favorites()))

	medialess := 0
	for _, ev := range cat.Events() {
		if ev.Media.Kind() == event.MediaNone {
			medialess++
		}
	}
	for i := 0; i < medialess; i++ {
		rec.IncMediaDrops()
	}

	s.controlBar = chrome.NewControlBar(eng, h)
	if cfg.Settings.DisplayControlBar {
		s.controlBar.Start()
	}
	s.topBar = chrome.NewTopBar(h, cfg.Settings.MenuAutoHide,
		time.Duration(cfg.Playback.MenuHideMs)*time.Millisecond)

	zlog.Info().
		Int("events", cat.Len()).
		Str("lang", cfg.Site.Lang).
		Msg("session assembled")
	return s, nil
}

// snapshot collects the address-bar projection inputs.
func (s *Session) snapshot() urlstate.Snapshot {
	return urlstate.Snapshot{
		FavoritesMode: s.controller.FavoritesMode(),
		Favorites:     s.controller.Favorites(),
		FilterSlug:    s.controller.FilterSlug(),
		ActiveID:      s.engine.ActiveID(),
		Section:       s.tracker.Section(),
		Lang:          s.config.Site.Lang,
	}
}

// Enter applies an entry URL. Favorites win over a tag filter, which
// wins over a direct event link, which wins over a section anchor.
// Exactly one dimension applies; the rest of the URL is ignored.
func (s *Session) Enter(rawURL string) {
	p := urlstate.ParseParams(rawURL)

	switch {
	case len(p.Favorites) > 0:
		s.controller.RestoreFavorites(p.Favorites)
		s.controller.PlayFavorites()
	case p.Filter != "":
		s.controller.SetTagFilter(p.Filter)
	case p.EventID != 0 && s.catalog.Contains(p.EventID):
		s.engine.ScrollTo(p.EventID, false)
	case p.Section != "":
		s.engine.FocusSection(p.Section)
	}
	s.urlSync.Refresh()
}

// ShareLink returns an absolute link reproducing the current state.
func (s *Session) ShareLink() string {
	return urlstate.ShareLink(s.config.Site.BaseURL, s.snapshot())
}

// ShareEventLink returns an absolute link straight to one event.
func (s *Session) ShareEventLink(id int) string {
	return urlstate.ShareEventLink(s.config.Site.BaseURL, id)
}

// Catalog exposes the loaded event catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Engine exposes the playback engine.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Tracker exposes the viewport tracker.
func (s *Session) Tracker() *viewport.Tracker {
	return s.tracker
}

// Controller exposes the filter and favorites controller.
func (s *Session) Controller() *filterfav.Controller {
	return s.controller
}

// Hooks exposes the render hook stream.
func (s *Session) Hooks() *hooks.Manager {
	return s.hooks
}

// ControlBar exposes the playback control bar.
func (s *Session) ControlBar() *chrome.ControlBar {
	return s.controlBar
}

// TopBar exposes the auto-hiding top bar.
func (s *Session) TopBar() *chrome.TopBar {
	return s.topBar
}

// Metrics exposes the metrics registry for the HTTP exposition
// handler.
func (s *Session) Metrics() *metrics.Metrics {
	return s.metrics
}

// Translator exposes the date formatter for the configured language.
func (s *Session) Translator() *i18n.Translator {
	return s.translator
}

// URLSync exposes the address-bar synchronizer.
func (s *Session) URLSync() *urlstate.Sync {
	return s.urlSync
}

// Close stops the periodic chrome work. Players hold no OS resources
// of their own; the render host owns the actual media elements.
func (s *Session) Close() {
	s.controlBar.Stop()
	s.topBar.Close()
	s.engine.PauseAll()
}
