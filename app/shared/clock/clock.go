// Package clock abstracts the wall clock so deadline and scheduling logic can
// be pinned in tests and in delayed queue work.
package clock

import "time"

// Clock is the time source used by services.
type Clock interface {
	Now() time.Time
	NowUTC() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time    { return time.Now() }
func (RealClock) NowUTC() time.Time { return time.Now().UTC() }

// AnchorClock always returns the anchor time. Queue workers use it so that a
// job retried hours later still computes deadlines from the moment the
// transition happened.
type AnchorClock struct {
	anchor time.Time
}

// NewAnchorClock creates an AnchorClock. A zero t anchors to the current UTC time.
func NewAnchorClock(t time.Time) AnchorClock {
	if t.IsZero() {
		return AnchorClock{anchor: time.Now().UTC()}
	}
	return AnchorClock{anchor: t.UTC()}
}

func (c AnchorClock) Now() time.Time    { return c.anchor }
func (c AnchorClock) NowUTC() time.Time { return c.anchor.UTC() }

// FakeClock is a settable Clock for tests.
type FakeClock struct {
	NowFn func() time.Time
}

// Fixed returns a FakeClock frozen at t.
func Fixed(t time.Time) *FakeClock {
	return &FakeClock{NowFn: func() time.Time { return t }}
}

func (f *FakeClock) Now() time.Time {
	if f.NowFn != nil {
		return f.NowFn()
	}
	return time.Now()
}

func (f *FakeClock) NowUTC() time.Time {
	return f.Now().UTC()
}
