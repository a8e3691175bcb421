package models

import "time"

// RetentionWindow is how long a soft-deleted item stays in the recycle bin.
const RetentionWindow = 24 * time.Hour

// DeletedItem is the recycle-bin record of a soft-deleted MediaItem.
// Timestamps are Unix milliseconds.
type DeletedItem struct {
	// ID is the internal bin record id.
	ID string

	// MediaID is the media store id of the deleted item.
	MediaID string

	Path     string
	Name     string
	AddedAt  int64
	Size     int64
	Kind     MediaKind
	Duration time.Duration

	DeletedAt int64
	ExpiresAt int64
}

// NewDeletedItem snapshots item as deleted at now. ExpiresAt is always
// DeletedAt plus RetentionWindow.
func NewDeletedItem(id string, item MediaItem, now time.Time) DeletedItem {
	deletedAt := now.UnixMilli()
	return DeletedItem{
		ID:        id,
		MediaID:   item.ID,
		Path:      item.Path,
		Name:      item.Name,
		AddedAt:   item.AddedAt,
		Size:      item.Size,
		Kind:      item.Kind,
		Duration:  item.Duration,
		DeletedAt: deletedAt,
		ExpiresAt: deletedAt + RetentionWindow.Milliseconds(),
	}
}

// ToMedia converts the record back into the MediaItem it was taken from.
func (d DeletedItem) ToMedia() MediaItem {
	return MediaItem{
		ID:       d.MediaID,
		Path:     d.Path,
		Name:     d.Name,
		AddedAt:  d.AddedAt,
		Size:     d.Size,
		Kind:     d.Kind,
		Duration: d.Duration,
	}
}

// Remaining returns the time left until expiry, never negative.
func (d DeletedItem) Remaining(now time.Time) time.Duration {
	left := d.ExpiresAt - now.UnixMilli()
	if left < 0 {
		return 0
	}
	return time.Duration(left) * time.Millisecond
}

// Expired reports whether the record is due for the expiry sweep.
func (d DeletedItem) Expired(now time.Time) bool {
	return now.UnixMilli() >= d.ExpiresAt
}
