package rules

import (
	"fmt"

	"bookwala/models"
)

// SlotRange converts a slot's vendor-local start and its service duration to
// a minutes-since-midnight range.
func SlotRange(startHHMM string, durationHours float64) (Range, error) {
	start, err := TimeToMinutes(startHHMM)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: start + int(durationHours*60)}, nil
}

// FilterConflictFree keeps the candidates whose [start, start+duration)
// window does not overlap any booked range on the same resource. This is what
// stops the agent from offering a 2-hour slot at 09:00 when 10:00 is taken.
func FilterConflictFree(candidates []models.Slot, booked map[string][]Range, durationHours float64) []models.Slot {
	if durationHours <= 0 {
		durationHours = 1
	}
	out := make([]models.Slot, 0, len(candidates))
	for _, c := range candidates {
		want, err := SlotRange(c.Time, durationHours)
		if err != nil {
			continue
		}
		conflict := false
		for _, b := range booked[c.ResourceID] {
			if RangesOverlap(want, b) {
				conflict = true
				break
			}
		}
		if !conflict {
			out = append(out, c)
		}
	}
	return out
}

// ValidateBookingDuration reports whether a booking of durationHours starting
// at startHHMM fits between the given booked ranges.
func ValidateBookingDuration(durationHours float64, startHHMM string, booked []Range) (bool, string) {
	if durationHours <= 0 {
		return false, "duration must be positive"
	}
	want, err := SlotRange(startHHMM, durationHours)
	if err != nil {
		return false, fmt.Sprintf("invalid start time %q", startHHMM)
	}
	for _, b := range booked {
		if RangesOverlap(want, b) {
			return false, fmt.Sprintf("a %s booking at %s runs into an existing booking at %s",
				fmtHours(durationHours), startHHMM, MinutesToTime(b.Start))
		}
	}
	return true, ""
}

// InWindow reports whether a slot's start lies in [window.Start, window.End),
// or at/after Start when End is absent.
func InWindow(startHHMM string, window TimeWindow) bool {
	if window.Start == "" {
		return true
	}
	t, err := TimeToMinutes(startHHMM)
	if err != nil {
		return false
	}
	lo, err := TimeToMinutes(window.Start)
	if err != nil {
		return false
	}
	if t < lo {
		return false
	}
	if window.End == "" {
		return true
	}
	hi, err := TimeToMinutes(window.End)
	if err != nil {
		return true
	}
	return t < hi
}

func fmtHours(h float64) string {
	if h == float64(int(h)) {
		return fmt.Sprintf("%d hour", int(h))
	}
	return fmt.Sprintf("%.1f hour", h)
}
