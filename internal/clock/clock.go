// Package clock abstracts monotonic time and blocking sleep behind a small
// interface so that time-driven loops (notably the vibration sampling window)
// can run against a deterministic clock in tests instead of wall time.
package clock

import "time"

// Clock provides the two primitives the sampling loops are defined in terms
// of: a monotonic now and a blocking sleep.
type Clock interface {
	// Now returns the current time. Implementations must return values with
	// a monotonic component so that elapsed-time comparisons are immune to
	// wall-clock adjustments.
	Now() time.Time

	// Sleep blocks the calling goroutine for at least the given duration.
	Sleep(d time.Duration)
}

// System is the production Clock backed by the Go runtime.
type System struct{}

// Now returns time.Now(), which carries a monotonic reading.
func (System) Now() time.Time { return time.Now() }

// Sleep delegates to time.Sleep.
func (System) Sleep(d time.Duration) { time.Sleep(d) }

// Fake is a deterministic Clock for tests. Time advances only when Sleep is
// called (by exactly the requested duration) or when Advance is called
// explicitly. Fake is not safe for concurrent use; the pipelines it exists to
// test are single-threaded by design.
type Fake struct {
	now    time.Time
	slept  int
	onTick func(n int)
}

// NewFake returns a Fake clock starting at the given instant.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake clock's current instant.
func (f *Fake) Now() time.Time { return f.now }

// Sleep advances the fake clock by d and invokes the tick callback, if any.
func (f *Fake) Sleep(d time.Duration) {
	f.now = f.now.Add(d)
	f.slept++
	if f.onTick != nil {
		f.onTick(f.slept)
	}
}

// Advance moves the clock forward without counting as a sleep.
func (f *Fake) Advance(d time.Duration) { f.now = f.now.Add(d) }

// Sleeps reports how many times Sleep has been called.
func (f *Fake) Sleeps() int { return f.slept }

// OnTick registers a callback invoked after every Sleep with the total sleep
// count so far. Tests use it to script signal sources in lockstep with the
// sampling cadence.
func (f *Fake) OnTick(fn func(n int)) { f.onTick = fn }
