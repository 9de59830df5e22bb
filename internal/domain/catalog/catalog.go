// Package catalog provides the ordered, validated event list.
package catalog

import (
	"sort"

	"github.com/delmas/festfeed/internal/domain/event"
)

// Catalog holds the ordered sequence of events. Order is presentation
// order. The catalog is built once at startup and never mutated.
type Catalog struct {
	events []event.Event
	byID   map[int]int // id -> index
}

// New builds a catalog from an ordered event slice.
func New(events []event.Event) *Catalog {
	byID := make(map[int]int, len(events))
	for i, e := range events {
		byID[e.ID] = i
	}
	return &Catalog{events: events, byID: byID}
}

// Len returns the number of events.
func (c *Catalog) Len() int {
	return len(c.events)
}

// Events returns the events in presentation order.
func (c *Catalog) Events() []event.Event {
	out := make([]event.Event, len(c.events))
	copy(out, c.events)
	return out
}

// ByID returns the event with the given id.
func (c *Catalog) ByID(id int) (*event.Event, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.events[i], true
}

// Contains reports whether id is a valid event id.
func (c *Catalog) Contains(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns all event ids in presentation order.
func (c *Catalog) IDs() []int {
	ids := make([]int, len(c.events))
	for i, e := range c.events {
		ids[i] = e.ID
	}
	return ids
}

// First returns the first event id, or false on an empty catalog.
func (c *Catalog) First() (int, bool) {
	if len(c.events) == 0 {
		return 0, false
	}
	return c.events[0].ID, true
}

// Next returns the id following id in presentation order. With loop
// enabled the last event wraps to the first; otherwise the second
// return is false at the end of the list. An unknown id yields the
// first event, so a stale reference restarts the sequence.
func (c *Catalog) Next(id int, loop bool) (int, bool) {
	i, ok := c.byID[id]
	if !ok {
		return c.First()
	}
	if i >= len(c.events)-1 {
		if !loop {
			return 0, false
		}
		return c.events[0].ID, true
	}
	return c.events[i+1].ID, true
}

// MatchingTag returns the events carrying the given tag slug, in
// presentation order.
func (c *Catalog) MatchingTag(slug string) []event.Event {
	var out []event.Event
	for _, e := range c.events {
		if e.HasTag(slug) {
			out = append(out, e)
		}
	}
	return out
}

// TagNameFromSlug resolves a slug back to the first original tag text
// found in the catalog, or the slug itself when no event carries it.
func (c *Catalog) TagNameFromSlug(slug string) string {
	if slug == "" {
		return ""
	}
	for _, e := range c.events {
		if name := e.TagName(slug); name != "" {
			return name
		}
	}
	return slug
}

// Timeline returns the events sorted by start date then start time.
// Events without a date sort last, matching the timeline drawer.
func (c *Catalog) Timeline() []event.Event {
	out := c.Events()
	sort.SliceStable(out, func(i, j int) bool {
		return timelineKey(out[i]) < timelineKey(out[j])
	})
	return out
}

func timelineKey(e event.Event) string {
	date := e.StartDate
	if date == "" {
		date = "9999-99-99"
	}
	t := e.StartTime
	if t == "" {
		t = "00:00"
	}
	return date + "T" + t
}
