package rules

import (
	"testing"

	"bookwala/models"
)

func candidate(id, hhmm string) models.Slot {
	return models.Slot{ID: id, ResourceID: "court_1", Time: hhmm}
}

func TestFilterConflictFree(t *testing.T) {
	candidates := []models.Slot{
		candidate("nine", "09:00"),
		candidate("eleven", "11:00"),
	}
	// 10:00-11:00 is booked on the same court.
	booked := map[string][]Range{
		"court_1": {{Start: 600, End: 660}},
	}

	// A 2-hour play from 09:00 collides with the 10:00 booking; 11:00 is fine.
	got := FilterConflictFree(candidates, booked, 2)
	if len(got) != 1 || got[0].ID != "eleven" {
		t.Fatalf("2h filter kept %+v, want only eleven", got)
	}

	// A 1-hour play fits both.
	got = FilterConflictFree(candidates, booked, 1)
	if len(got) != 2 {
		t.Fatalf("1h filter kept %+v, want both", got)
	}

	// Bookings on another resource never conflict.
	other := map[string][]Range{"court_2": {{Start: 540, End: 780}}}
	got = FilterConflictFree(candidates, other, 2)
	if len(got) != 2 {
		t.Fatalf("cross-resource filter kept %+v, want both", got)
	}
}

func TestValidateBookingDuration(t *testing.T) {
	booked := []Range{{Start: 600, End: 660}}

	ok, _ := ValidateBookingDuration(1, "09:00", booked)
	if !ok {
		t.Fatal("1h at 09:00 should fit before a 10:00 booking")
	}

	ok, reason := ValidateBookingDuration(2, "09:00", booked)
	if ok {
		t.Fatal("2h at 09:00 should collide with the 10:00 booking")
	}
	if reason == "" {
		t.Fatal("collision must carry a reason")
	}

	if ok, _ := ValidateBookingDuration(0, "09:00", nil); ok {
		t.Fatal("zero duration must be rejected")
	}
	if ok, _ := ValidateBookingDuration(1, "late", nil); ok {
		t.Fatal("malformed start time must be rejected")
	}
}

func TestInWindow(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		window TimeWindow
		want   bool
	}{
		{name: "no window", start: "07:00", window: TimeWindow{}, want: true},
		{name: "inside", start: "17:00", window: TimeWindow{Start: "16:00", End: "21:00"}, want: true},
		{name: "at start", start: "16:00", window: TimeWindow{Start: "16:00", End: "21:00"}, want: true},
		{name: "at end", start: "21:00", window: TimeWindow{Start: "16:00", End: "21:00"}, want: false},
		{name: "before", start: "15:00", window: TimeWindow{Start: "16:00", End: "21:00"}, want: false},
		{name: "open ended", start: "23:00", window: TimeWindow{Start: "18:00"}, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InWindow(tc.start, tc.window); got != tc.want {
				t.Fatalf("InWindow(%q, %+v) = %v, want %v", tc.start, tc.window, got, tc.want)
			}
		})
	}
}
