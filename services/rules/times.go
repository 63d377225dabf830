// Package rules holds the pure booking arithmetic: time-of-day conversions,
// interval overlap, duration filtering, and the single entry point for
// normalizing natural-language dates, times and durations. Nothing in here
// touches a store or a clock it wasn't handed.
package rules

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// Range is a half-open [Start, End) interval in minutes since midnight.
// End may exceed 24h for windows normalized across midnight.
type Range struct {
	Start int
	End   int
}

// TimeToMinutes converts an "HH:MM" string to minutes since midnight.
func TimeToMinutes(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return h*60 + m, nil
}

// MinutesToTime converts minutes since midnight to "HH:MM", wrapping past 24h.
func MinutesToTime(m int) string {
	m = ((m % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Normalize resolves an overnight wrap: a range whose end reads before its
// start is pushed past midnight.
func (r Range) Normalize() Range {
	if r.End < r.Start {
		r.End += minutesPerDay
	}
	return r
}

// RangesOverlap reports whether two half-open ranges intersect. Touching
// boundaries do not overlap: [10:00,11:00) and [11:00,12:00) are compatible.
func RangesOverlap(a, b Range) bool {
	a = a.Normalize()
	b = b.Normalize()
	return a.Start < b.End && b.Start < a.End
}
