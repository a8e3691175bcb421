package recyclebin

import "time"

// Clock supplies the current time. Expiry uses millisecond precision.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
