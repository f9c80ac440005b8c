// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used in queries and payloads.
const DateLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight, so the
// weekday never shifts with the server timezone.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDateBR renders a date as DD/MM/YYYY.
func FormatDateBR(t time.Time) string {
	return t.Format("02/01/2006")
}

// ValidSlot reports whether s is an HH:MM time on the half hour.
func ValidSlot(s string) bool {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return false
	}
	return t.Minute() == 0 || t.Minute() == 30
}
