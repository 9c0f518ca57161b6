package shared

import "time"

// Day truncates an instant to midnight in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayRange expands an inclusive [start, end] calendar-day pair into the
// half-open instant range [start 00:00, end+1d 00:00).
func DayRange(start, end time.Time) (time.Time, time.Time) {
	return Day(start), Day(end).AddDate(0, 0, 1)
}

// OrDay returns fallback truncated to midnight when t is the zero time,
// otherwise t truncated to midnight.
func OrDay(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return Day(fallback)
	}
	return Day(t)
}
