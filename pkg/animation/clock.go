package animation

import "time"

// Clock provides time for a FrameLoop. The default implementation uses
// system time. Tests inject a fake clock to control timing deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
