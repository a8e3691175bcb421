package grouping

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(id string, t time.Time) models.MediaItem {
	return models.MediaItem{ID: id, Name: id + ".jpg", AddedAt: t.Unix(), Kind: models.KindImage}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestDisplayDate(t *testing.T) {
	g := New(time.UTC)

	tests := []struct {
		name  string
		added time.Time
		want  string
	}{
		{"leap year month end", day(2024, time.February, 28), "2024-03-02"},
		{"year end", day(2024, time.December, 30), "2025-01-02"},
		{"plain", day(2024, time.June, 10), "2024-06-13"},
		{"non leap february", day(2023, time.February, 27), "2023-03-02"},
		{"midnight", time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), "2024-06-13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.DisplayDate(at("x", tt.added)))
		})
	}
}

func TestDisplayDate_ZeroTimestampUsesEpoch(t *testing.T) {
	g := New(time.UTC)
	assert.Equal(t, "1970-01-04", g.DisplayDate(models.MediaItem{}))
}

func TestDisplayDate_UsesGrouperLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 22:00 UTC is already the next day at UTC+5
	added := time.Date(2024, time.June, 10, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-06-13", New(time.UTC).DisplayDate(at("x", added)))
	assert.Equal(t, "2024-06-14", New(loc).DisplayDate(at("x", added)))
}

func TestGroupAll_PartitionsInFirstSeenOrder(t *testing.T) {
	g := New(time.UTC)
	items := []models.MediaItem{
		at("a", day(2024, time.June, 12)),
		at("b", day(2024, time.June, 10)),
		at("c", day(2024, time.June, 12)),
		at("d", day(2024, time.May, 1)),
		at("e", day(2024, time.June, 10)),
	}

	b := g.GroupAll(items)

	assert.Equal(t, []string{"2024-06-15", "2024-06-13", "2024-05-04"}, b.Keys())
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, len(items), b.Total())

	ids := func(ms []models.MediaItem) []string {
		var out []string
		for _, m := range ms {
			out = append(out, m.ID)
		}
		return out
	}
	assert.Equal(t, []string{"a", "c"}, ids(b.Get("2024-06-15")))
	assert.Equal(t, []string{"b", "e"}, ids(b.Get("2024-06-13")))
	assert.Equal(t, []string{"d"}, ids(b.Get("2024-05-04")))
	assert.Nil(t, b.Get("1999-01-01"))

	seen := map[string]int{}
	for _, k := range b.Keys() {
		for _, m := range b.Get(k) {
			seen[m.ID]++
		}
	}
	for _, m := range items {
		assert.Equal(t, 1, seen[m.ID], "item %s must be in exactly one bucket", m.ID)
	}
}

func TestBuckets_SortedKeysNewestFirst(t *testing.T) {
	g := New(time.UTC)
	b := g.GroupAll([]models.MediaItem{
		at("a", day(2024, time.May, 1)),
		at("b", day(2025, time.January, 1)),
		at("c", day(2024, time.June, 12)),
	})

	assert.Equal(t, []string{"2025-01-04", "2024-06-15", "2024-05-04"}, b.SortedKeys())
	assert.Equal(t, []string{"2024-05-04", "2025-01-04", "2024-06-15"}, b.Keys(), "Keys keeps first-seen order")
}

func TestGroupAll_Empty(t *testing.T) {
	b := New(time.UTC).GroupAll(nil)
	assert.Zero(t, b.Len())
	assert.Zero(t, b.Total())
	assert.Empty(t, b.Keys())
}

func TestItemsForDate(t *testing.T) {
	g := New(time.UTC)
	items := []models.MediaItem{
		at("a", day(2024, time.February, 28)),
		at("b", day(2024, time.March, 1)),
		at("c", day(2024, time.February, 28)),
	}

	got := g.ItemsForDate(items, "2024-03-02")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	assert.Empty(t, g.ItemsForDate(items, "2024-02-28"))
}

func TestVisible(t *testing.T) {
	g := New(time.UTC)
	now := day(2024, time.June, 13)
	items := []models.MediaItem{
		at("future", day(2024, time.June, 11)),
		at("today", day(2024, time.June, 10)),
		at("past", day(2024, time.June, 1)),
	}

	got := g.Visible(items, now)
	require.Len(t, got, 2)
	assert.Equal(t, "today", got[0].ID)
	assert.Equal(t, "past", got[1].ID)
	assert.Equal(t, "2024-06-13", g.TodayKey(now))
}

func TestNew_NilLocationIsLocal(t *testing.T) {
	assert.Equal(t, time.Local, New(nil).Location())
}
