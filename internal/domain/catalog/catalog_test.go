package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/delmas/festfeed/internal/domain/event"
)

func testCatalog() *Catalog {
	return New([]event.Event{
		{ID: 10, Name: "Opening", Tags: []string{"Electro"}, StartDate: "2026-07-10", StartTime: "20:00"},
		{ID: 20, Name: "Main Act", Tags: []string{"Rock", "Electro"}, StartDate: "2026-07-10", StartTime: "22:00"},
		{ID: 30, Name: "Late Set", Tags: []string{"Rock"}, StartDate: "2026-07-11", StartTime: "01:00"},
	})
}

func TestCatalog_ByID(t *testing.T) {
	c := testCatalog()

	ev, ok := c.ByID(20)
	assert.True(t, ok)
	assert.Equal(t, "Main Act", ev.Name)

	_, ok = c.ByID(99)
	assert.False(t, ok)

	assert.True(t, c.Contains(10))
	assert.False(t, c.Contains(0))
}

func TestCatalog_Next(t *testing.T) {
	tests := []struct {
		name       string
		id         int
		loop       bool
		expectedID int
		expectedOK bool
	}{
		{
			name:       "middle advances",
			id:         10,
			loop:       false,
			expectedID: 20,
			expectedOK: true,
		},
		{
			name:       "last without loop stops",
			id:         30,
			loop:       false,
			expectedID: 0,
			expectedOK: false,
		},
		{
			name:       "last with loop wraps to first",
			id:         30,
			loop:       true,
			expectedID: 10,
			expectedOK: true,
		},
		{
			name:       "unknown id restarts at first",
			id:         99,
			loop:       false,
			expectedID: 10,
			expectedOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCatalog()
			id, ok := c.Next(tt.id, tt.loop)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedID, id)
		})
	}
}

func TestCatalog_NextEmpty(t *testing.T) {
	c := New(nil)
	_, ok := c.Next(1, true)
	assert.False(t, ok)
	_, ok = c.First()
	assert.False(t, ok)
}

func TestCatalog_MatchingTag(t *testing.T) {
	c := testCatalog()

	rock := c.MatchingTag("rock")
	assert.Len(t, rock, 2)
	assert.Equal(t, 20, rock[0].ID)
	assert.Equal(t, 30, rock[1].ID)

	assert.Empty(t, c.MatchingTag("jazz"))
	assert.Equal(t, "Electro", c.TagNameFromSlug("electro"))
	assert.Equal(t, "jazz", c.TagNameFromSlug("jazz"))
}

func TestCatalog_Timeline(t *testing.T) {
	c := New([]event.Event{
		{ID: 1, StartDate: "2026-07-11", StartTime: "01:00"},
		{ID: 2}, // no date, sorts last
		{ID: 3, StartDate: "2026-07-10", StartTime: "22:00"},
		{ID: 4, StartDate: "2026-07-10", StartTime: "20:00"},
	})

	tl := c.Timeline()
	ids := make([]int, len(tl))
	for i, e := range tl {
		ids[i] = e.ID
	}
	assert.Equal(t, []int{4, 3, 1, 2}, ids)
}
