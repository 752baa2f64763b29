package matching

// minutesPerDay is added to an overnight interval's end to model wraparound
// past midnight.
const minutesPerDay = 1440

// Interval is a time-of-day window in minutes since midnight. An overnight
// interval's end is numerically earlier than (or equal to) its start and
// wraps into the next day.
type Interval struct {
	Start     int
	End       int
	Overnight bool
}

// effectiveEnd normalizes an overnight wraparound onto a single axis.
func (iv Interval) effectiveEnd() int {
	if iv.Overnight && iv.End <= iv.Start {
		return iv.End + minutesPerDay
	}
	return iv.End
}

// Valid reports whether the interval has positive length. Zero-length
// intervals never overlap anything and are rejected upstream.
func (iv Interval) Valid() bool {
	return iv.effectiveEnd() > iv.Start
}

// Overlaps is the closed-open intersection test: a slot ending exactly when
// another begins does not overlap.
func Overlaps(a, b Interval) bool {
	if a.Start < b.effectiveEnd() && b.Start < a.effectiveEnd() {
		return true
	}
	// An interval wrapping past midnight also covers [0, end-1440) of the next
	// day; compare the other side against that portion one day-shift along the
	// shared axis.
	return b.Start+minutesPerDay < a.effectiveEnd() || a.Start+minutesPerDay < b.effectiveEnd()
}
