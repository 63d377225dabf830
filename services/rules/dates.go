package rules

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the civil date wire format used everywhere.
const DateLayout = "2006-01-02"

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ResolveDate normalizes a natural-language date to YYYY-MM-DD in the given
// location. Accepted forms: today/tomorrow (and Roman-Urdu aaj/kal/parson),
// a weekday name (always the next occurrence), YYYY-MM-DD, and "20 December" /
// "December 20" style phrases. A normalized date round-trips unchanged.
func ResolveDate(raw string, now time.Time, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("empty date")
	}

	switch s {
	case "today", "aaj", "aj":
		return now.Format(DateLayout), nil
	case "tomorrow", "kal", "kl":
		return now.AddDate(0, 0, 1).Format(DateLayout), nil
	case "day after tomorrow", "parson":
		return now.AddDate(0, 0, 2).Format(DateLayout), nil
	}

	if wd, ok := weekdays[s]; ok {
		return nextWeekday(now, wd).Format(DateLayout), nil
	}

	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t.Format(DateLayout), nil
	}

	// "20 december", "december 20", "20 dec 2025" and friends.
	for _, layout := range []string{
		"2 january 2006", "2 january", "january 2 2006", "january 2",
		"2 jan 2006", "2 jan", "jan 2 2006", "jan 2",
		"2/1/2006", "2-1-2006",
	} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			if t.Year() == 0 {
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
				// A month/day with no year always means the next occurrence.
				if t.Format(DateLayout) < now.Format(DateLayout) {
					t = t.AddDate(1, 0, 0)
				}
			}
			return t.Format(DateLayout), nil
		}
	}

	return "", fmt.Errorf("unrecognized date %q", raw)
}

// nextWeekday returns the next occurrence of wd strictly after today's date
// when today already is wd; "monday" said on a Monday means next week.
func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}

// AddDays shifts a YYYY-MM-DD string by n civil days.
func AddDays(date string, n int) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q", date)
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}
