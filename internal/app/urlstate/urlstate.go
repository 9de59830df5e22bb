// Package urlstate projects application state into the address bar
// and parses it back on entry. The projection is a pure function of a
// state snapshot so deep links stay reproducible.
package urlstate

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/delmas/festfeed/internal/app/hooks"
	"github.com/delmas/festfeed/internal/domain/i18n"
)

var (
	idPattern        = regexp.MustCompile(`^[0-9]+$`)
	filterPattern    = regexp.MustCompile(`^[a-z0-9-]+$`)
	favoritesPattern = regexp.MustCompile(`^[0-9]+(,[0-9]+)*$`)
	langPattern      = regexp.MustCompile(`^(fr|en)$`)
)

// Snapshot is the application state the address bar reflects. Exactly
// the highest-priority dimension present is projected: favorites mode
// wins over a tag filter, which wins over the focused card, which
// wins over a focused section.
type Snapshot struct {
	FavoritesMode bool
	Favorites     []int
	FilterSlug    string
	ActiveID      int
	Section       string
	Lang          string
}

// Params is the decoded entry state of an incoming URL. Invalid
// values are dropped, never reported to the user.
type Params struct {
	EventID   int
	Filter    string
	Favorites []int
	Lang      string
	Section   string
	WebShare  bool
}

// Project renders the query-and-fragment tail for a snapshot. The
// result never includes a host so it can be appended to any base.
func Project(s Snapshot) string {
	q := url.Values{}
	switch {
	case s.FavoritesMode && len(s.Favorites) > 0:
		q.Set("favorites", joinIDs(s.Favorites))
	case s.FilterSlug != "":
		q.Set("filter", s.FilterSlug)
	case s.ActiveID != 0:
		q.Set("id", strconv.Itoa(s.ActiveID))
	}
	if s.Lang != "" && s.Lang != i18n.LangFR {
		q.Set("lang", s.Lang)
	}

	var b strings.Builder
	if len(q) > 0 {
		b.WriteString("?")
		b.WriteString(q.Encode())
	}
	if s.FavoritesMode || s.FilterSlug != "" || s.ActiveID != 0 {
		return b.String()
	}
	if s.Section != "" {
		fmt.Fprintf(&b, "#%s", s.Section)
	}
	return b.String()
}

// ParseParams decodes an entry URL. Each parameter is validated
// independently; a malformed value is ignored and the rest still
// apply.
func ParseParams(raw string) Params {
	var p Params
	u, err := url.Parse(raw)
	if err != nil {
		return p
	}
	q := u.Query()

	if v := q.Get("id"); idPattern.MatchString(v) {
		p.EventID, _ = strconv.Atoi(v)
	}
	if v := q.Get("filter"); filterPattern.MatchString(v) {
		p.Filter = v
	}
	if v := q.Get("favorites"); favoritesPattern.MatchString(v) {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.Atoi(part)
			if err != nil {
				continue
			}
			p.Favorites = append(p.Favorites, id)
		}
	}
	if v := q.Get("lang"); langPattern.MatchString(v) {
		p.Lang = v
	}
	p.Section = u.Fragment
	p.WebShare = q.Get("share") == "web"
	return p
}

// ShareLink builds an absolute link for the current snapshot, marked
// as a web share so the opener can fall back when no native share
// surface exists.
func ShareLink(base string, s Snapshot) string {
	tail := Project(s)
	if tail == "" || strings.HasPrefix(tail, "#") {
		sep := "?"
		return base + sep + "share=web" + tail
	}
	return base + tail + "&share=web"
}

// ShareEventLink builds an absolute link straight to one event.
func ShareEventLink(base string, id int) string {
	return ShareLink(base, Snapshot{ActiveID: id})
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Sync keeps the address bar in step with the application. It pulls a
// fresh snapshot through the getter and emits a URL change only when
// the projection actually differs, mirroring history replacement
// rather than stacking entries.
type Sync struct {
	hooks    *hooks.Manager
	snapshot func() Snapshot

	mu   sync.Mutex
	last string
}

// NewSync creates a synchronizer over a snapshot getter.
func NewSync(h *hooks.Manager, snapshot func() Snapshot) *Sync {
	return &Sync{hooks: h, snapshot: snapshot}
}

// Refresh re-projects the current snapshot and announces the new tail
// when it changed.
func (s *Sync) Refresh() {
	tail := Project(s.snapshot())

	s.mu.Lock()
	if tail == s.last {
		s.mu.Unlock()
		return
	}
	s.last = tail
	s.mu.Unlock()

	s.hooks.Emit(hooks.Event{Kind: hooks.KindURLChanged, URL: tail})
}

// Current returns the last projected tail.
func (s *Sync) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
