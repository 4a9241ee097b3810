// Package clock abstracts the time source so the cooperative step loop can
// be driven deterministically in tests.
//
// Production code injects Real(); tests inject Fake() and move time with
// Advance. Nothing in this module calls time.Now or time.Sleep directly.
package clock

import "time"

// Clock is the time source used by every component with a deadline or a
// settle delay.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks for at least d. The node is single-threaded, so a
	// sleep stalls the whole step loop; it is only used for short
	// power-rail settle delays.
	Sleep(d time.Duration)
}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }
