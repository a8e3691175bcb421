// Package grouping derives the display date of media items and partitions
// them into date buckets.
//
// An item becomes visible in the gallery on the calendar date of its
// original-added timestamp plus DisplayDelayDays. Display dates are always
// derived and never stored. Corrupt or zero timestamps are not special-cased
// and simply fall on the epoch-derived date.
package grouping

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/models"
)

// DisplayDelayDays is the number of days an item stays hidden after it was added.
const DisplayDelayDays = 3

// DateLayout is the format of bucket keys.
const DateLayout = "2006-01-02"

// Grouper computes display dates in a fixed time zone.
type Grouper struct {
	loc *time.Location
}

// New returns a Grouper for loc; nil means time.Local.
func New(loc *time.Location) *Grouper {
	if loc == nil {
		loc = time.Local
	}
	return &Grouper{loc: loc}
}

// Location returns the grouper's time zone.
func (g *Grouper) Location() *time.Location {
	return g.loc
}

// DisplayDate returns the bucket key of item.
func (g *Grouper) DisplayDate(item models.MediaItem) string {
	return g.displayDay(item.AddedTime(g.loc)).Format(DateLayout)
}

// displayDay adds the delay with calendar arithmetic so month and year
// boundaries roll over correctly.
func (g *Grouper) displayDay(added time.Time) time.Time {
	y, m, d := added.Date()
	return time.Date(y, m, d+DisplayDelayDays, 0, 0, 0, 0, g.loc)
}

// TodayKey returns the bucket key for the calendar date of now.
func (g *Grouper) TodayKey(now time.Time) string {
	return now.In(g.loc).Format(DateLayout)
}

// GroupAll partitions items by display date. Items keep their input order
// inside each bucket and keys keep first-seen order.
func (g *Grouper) GroupAll(items []models.MediaItem) *Buckets {
	b := &Buckets{byKey: make(map[string][]models.MediaItem)}
	for _, item := range items {
		key := g.DisplayDate(item)
		if _, ok := b.byKey[key]; !ok {
			b.keys = append(b.keys, key)
		}
		b.byKey[key] = append(b.byKey[key], item)
	}
	return b
}

// ItemsForDate returns the items whose display date equals key, in input order.
func (g *Grouper) ItemsForDate(items []models.MediaItem, key string) []models.MediaItem {
	var out []models.MediaItem
	for _, item := range items {
		if g.DisplayDate(item) == key {
			out = append(out, item)
		}
	}
	return out
}

// Visible returns the items whose display date is today or earlier.
func (g *Grouper) Visible(items []models.MediaItem, now time.Time) []models.MediaItem {
	today := g.TodayKey(now)
	var out []models.MediaItem
	for _, item := range items {
		// keys are zero-padded ISO dates, so string order is date order
		if g.DisplayDate(item) <= today {
			out = append(out, item)
		}
	}
	return out
}

// Buckets is the result of GroupAll.
type Buckets struct {
	keys  []string
	byKey map[string][]models.MediaItem
}

// Keys returns bucket keys in first-seen order.
func (b *Buckets) Keys() []string {
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// SortedKeys returns bucket keys newest date first.
func (b *Buckets) SortedKeys() []string {
	out := b.Keys()
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// Get returns the items of one bucket.
func (b *Buckets) Get(key string) []models.MediaItem {
	return b.byKey[key]
}

// Len returns the number of buckets.
func (b *Buckets) Len() int {
	return len(b.keys)
}

// Total returns the number of items across all buckets.
func (b *Buckets) Total() int {
	n := 0
	for _, items := range b.byKey {
		n += len(items)
	}
	return n
}
