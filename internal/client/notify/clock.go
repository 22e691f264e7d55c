package notify

import "time"

// Clock abstracts wall time and deferred execution so expiry can be tested
// against a simulated clock.
type Clock interface {
	Now() time.Time

	// AfterFunc schedules f after d and returns a stop function. Stopping an
	// already-fired timer is a no-op.
	AfterFunc(d time.Duration, f func()) (stop func())
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}
