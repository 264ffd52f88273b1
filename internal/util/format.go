package util

import (
	"fmt"
	"time"
)

// WeekStart returns the Monday 00:00:00 UTC boundary of the week
// containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return time.Date(t.Year(), t.Month(), t.Day()-weekday+1, 0, 0, 0, 0, time.UTC)
}

// FormatHours formats fractional hours for display.
// Examples: 0 -> "0h", 2.5 -> "2.5h"
func FormatHours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%.0fh", h)
	}
	return fmt.Sprintf("%.1fh", h)
}

// FormatWeekday returns the short weekday label for an ISO date string
// (2006-01-02). Returns the original string if parsing fails.
func FormatWeekday(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon")
}
