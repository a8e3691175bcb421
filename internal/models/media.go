package models

import "time"

// MediaKind classifies a media item.
type MediaKind int

const (
	KindImage MediaKind = iota + 1
	KindVideo
)

func (k MediaKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// ParseMediaKind is the inverse of MediaKind.String. Unknown values map to 0.
func ParseMediaKind(s string) MediaKind {
	switch s {
	case "image":
		return KindImage
	case "video":
		return KindVideo
	default:
		return 0
	}
}

// MediaItem is a value read from the media store at query time.
// It is never mutated after it has been read.
type MediaItem struct {
	// ID is assigned by the media store and stays stable for the file's lifetime.
	ID string

	// Path is the location of the file inside the media store.
	Path string

	// Name is the display name (base name of Path).
	Name string

	// AddedAt is the original-added timestamp in Unix seconds.
	AddedAt int64

	// Size is the file size in bytes.
	Size int64

	Kind MediaKind

	// Duration is set for videos only.
	Duration time.Duration
}

// IsVideo reports whether the item is a video.
func (m MediaItem) IsVideo() bool {
	return m.Kind == KindVideo
}

// AddedTime returns AddedAt as a time.Time in the given location.
func (m MediaItem) AddedTime(loc *time.Location) time.Time {
	return time.Unix(m.AddedAt, 0).In(loc)
}
