package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimeWindow is a normalized time-of-day selection. End is "" when the user
// named a single time rather than a range.
type TimeWindow struct {
	Start string
	End   string
}

// Colloquial day parts, Roman-Urdu and English. Values are vendor-local HH:MM
// windows.
var dayParts = map[string]TimeWindow{
	"subah":     {Start: "06:00", End: "12:00"},
	"morning":   {Start: "06:00", End: "12:00"},
	"dopahar":   {Start: "12:00", End: "16:00"},
	"afternoon": {Start: "12:00", End: "16:00"},
	"shaam":     {Start: "16:00", End: "21:00"},
	"sham":      {Start: "16:00", End: "21:00"},
	"evening":   {Start: "16:00", End: "21:00"},
	"raat":      {Start: "19:00", End: "23:00"},
	"night":     {Start: "19:00", End: "23:00"},
}

var (
	clockRe    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
	hourAmPmRe = regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)\b`)
	hourPairRe = regexp.MustCompile(`\b(\d{1,2})\s*(?:-|to)\s*(\d{1,2})\b`)
	bajayRe    = regexp.MustCompile(`\b(\d{1,2})\s*(?:bajay|baje|bjy)\b`)
	afterRe    = regexp.MustCompile(`\bafter\s+(\d{1,2})\s*(am|pm)?\b`)
	bareHourRe = regexp.MustCompile(`\b(\d{1,2})\b`)
)

// ParseTimePhrase normalizes a free-text time mention to a TimeWindow with
// HH:MM strings. Handles "HH:MM", "7 am", "8-10" ranges, "after 6",
// Roman-Urdu day parts (shaam, subah, raat) and "X bajay". Bare hours 1-11
// default to PM; a day-part word in the same phrase overrides that default.
func ParseTimePhrase(raw string) (*TimeWindow, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return nil, fmt.Errorf("empty time")
	}

	morning := strings.Contains(s, "subah") || strings.Contains(s, "morning")

	// "8-10", "8 to 10" ranges first so the pieces aren't eaten as bare hours.
	if m := hourPairRe.FindStringSubmatch(s); m != nil {
		h1, h2 := atoi(m[1]), atoi(m[2])
		start := resolveHour(h1, ampmOf(s), morning)
		end := resolveHour(h2, ampmOf(s), morning)
		if end <= start {
			// "11-12" wraps under the PM default; read it as literal hours.
			if h2 > h1 {
				start, end = h1, h2
			} else {
				end += 12
			}
		}
		if valid(start) && valid(end) {
			return &TimeWindow{Start: MinutesToTime(start * 60), End: MinutesToTime(end * 60)}, nil
		}
	}

	if m := clockRe.FindStringSubmatch(s); m != nil {
		h, mi := atoi(m[1]), atoi(m[2])
		// A leading zero ("07:00") is an already-normalized 24h time; only
		// bare forms like "7:30" take the PM default.
		if m[3] != "" || m[1][0] != '0' {
			h = applyAmPm(h, m[3], morning)
		}
		if h < 24 && mi < 60 {
			return &TimeWindow{Start: fmt.Sprintf("%02d:%02d", h, mi)}, nil
		}
	}

	if m := afterRe.FindStringSubmatch(s); m != nil {
		h := applyAmPm(atoi(m[1]), m[2], morning)
		if valid(h) {
			return &TimeWindow{Start: MinutesToTime(h * 60)}, nil
		}
	}

	if m := hourAmPmRe.FindStringSubmatch(s); m != nil {
		h := applyAmPm(atoi(m[1]), m[2], morning)
		if valid(h) {
			return &TimeWindow{Start: MinutesToTime(h * 60)}, nil
		}
	}

	if m := bajayRe.FindStringSubmatch(s); m != nil {
		h := resolveHour(atoi(m[1]), "", morning)
		if valid(h) {
			return &TimeWindow{Start: MinutesToTime(h * 60)}, nil
		}
	}

	// An explicit hour beats a day-part word: "7 subah" is 07:00, not the
	// whole morning window.
	if m := bareHourRe.FindStringSubmatch(s); m != nil {
		h := resolveHour(atoi(m[1]), "", morning)
		if valid(h) {
			return &TimeWindow{Start: MinutesToTime(h * 60)}, nil
		}
	}

	for word, window := range dayParts {
		if strings.Contains(s, word) {
			w := window
			return &w, nil
		}
	}

	return nil, fmt.Errorf("unrecognized time %q", raw)
}

var (
	hoursRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|ghantay|ghanta|ghante)\b`)
	minsRe  = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?)\b`)
	bareRe  = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*$`)
)

// ParseDuration normalizes a free-text duration mention to fractional hours.
func ParseDuration(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if m := hoursRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		return h, nil
	}
	if m := minsRe.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		return float64(mins) / 60, nil
	}
	// A bare number means hours.
	if m := bareRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		return h, nil
	}
	return 0, fmt.Errorf("unrecognized duration %q", raw)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func valid(h int) bool { return h >= 0 && h < 24 }

func ampmOf(s string) string {
	if strings.Contains(s, "pm") {
		return "pm"
	}
	if strings.Contains(s, "am") {
		return "am"
	}
	return ""
}

func applyAmPm(h int, ampm string, morning bool) int {
	switch ampm {
	case "am":
		if h == 12 {
			return 0
		}
		return h
	case "pm":
		if h == 12 {
			return 12
		}
		return h + 12
	default:
		return resolveHour(h, "", morning)
	}
}

// resolveHour applies the ambiguity default: hours 1-11 mean PM unless the
// phrase carried a morning marker.
func resolveHour(h int, ampm string, morning bool) int {
	if ampm != "" {
		return applyAmPm(h, ampm, morning)
	}
	if h >= 1 && h <= 11 && !morning {
		return h + 12
	}
	return h
}
