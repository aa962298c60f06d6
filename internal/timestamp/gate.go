// internal/timestamp/gate.go
package timestamp

import "time"

// platformEarliest is the default lower bound for plausible watch dates.
// The platform published its first video on 2005-02-14; anything earlier
// cannot be a real watch event.
var platformEarliest = time.Date(2005, time.February, 14, 0, 0, 0, 0, time.UTC)

// PlausibilityWindow defines the acceptable calendar range for extracted
// dates. Candidates outside the window are forced to absent with zero
// confidence. Now is injectable so tests can pin the upper bound.
type PlausibilityWindow struct {
	Earliest        time.Time
	FutureSlackDays int
	Now             func() time.Time
}

// DefaultWindow returns the production plausibility window.
func DefaultWindow() PlausibilityWindow {
	return PlausibilityWindow{
		Earliest:        platformEarliest,
		FutureSlackDays: 2,
		Now:             time.Now,
	}
}

// Allows reports whether the instant falls within the window. The upper
// bound (now plus slack) is inclusive.
func (w PlausibilityWindow) Allows(t time.Time) bool {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	earliest := w.Earliest
	if earliest.IsZero() {
		earliest = platformEarliest
	}
	limit := now().UTC().Add(time.Duration(w.FutureSlackDays) * 24 * time.Hour)
	return !t.Before(earliest) && !t.After(limit)
}
