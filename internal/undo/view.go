package undo

import "github.com/dmitrijs2005/gallerybin/internal/models"

// View is the caller's ordered list of items that an undo reinserts into.
type View interface {
	Len() int
	Insert(pos int, item models.MediaItem)
}

// List is a slice-backed View.
type List struct {
	Items []models.MediaItem
}

func NewList(items []models.MediaItem) *List {
	return &List{Items: append([]models.MediaItem(nil), items...)}
}

func (l *List) Len() int {
	return len(l.Items)
}

// Insert puts item at pos, clamped to the list bounds.
func (l *List) Insert(pos int, item models.MediaItem) {
	pos = max(0, min(pos, len(l.Items)))
	l.Items = append(l.Items, models.MediaItem{})
	copy(l.Items[pos+1:], l.Items[pos:])
	l.Items[pos] = item
}

// Remove deletes the item at pos and returns it.
func (l *List) Remove(pos int) (models.MediaItem, bool) {
	if pos < 0 || pos >= len(l.Items) {
		return models.MediaItem{}, false
	}
	item := l.Items[pos]
	l.Items = append(l.Items[:pos], l.Items[pos+1:]...)
	return item, true
}

// IndexOf returns the position of the item with mediaID, or -1.
func (l *List) IndexOf(mediaID string) int {
	for i, it := range l.Items {
		if it.ID == mediaID {
			return i
		}
	}
	return -1
}
