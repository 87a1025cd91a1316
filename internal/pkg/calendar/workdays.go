package calendar

import "time"

// WorkingDays counts Monday to Friday days of the given month in loc.
// Public holidays are not subtracted.
func WorkingDays(month, year int, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)

	count := 0
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// IsWorkingDay reports whether t falls on Monday to Friday.
func IsWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// MonthRange returns the first and last day of the month in loc.
func MonthRange(month, year int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return first, last
}
