package cli

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/models"
	"github.com/dustin/go-humanize"
)

// formatSize renders a byte count, e.g. "1.5 MB".
func formatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// formatRemaining renders time left in the bin as "5h 3m 2s", dropping
// leading zero units.
func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func formatItem(i int, it models.MediaItem) string {
	line := fmt.Sprintf("%3d  %s  %-32s %10s  %s", i, it.ID, it.Name, formatSize(it.Size), it.Kind)
	if it.IsVideo() && it.Duration > 0 {
		line += " " + it.Duration.Truncate(time.Second).String()
	}
	return line
}
