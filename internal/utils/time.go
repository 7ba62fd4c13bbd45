package utils

import (
	"fmt"
	"time"
)

// FormatIn returns the provided time formatted in the given location.
func FormatIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC1123)
}

// FormatDay prints just the calendar day in loc.
func FormatDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Mon, 02 Jan 2006")
}

// ParseDay reads a YYYY-MM-DD day in loc. "today" and "yesterday" are relative to now.
func ParseDay(s string, now time.Time, loc *time.Location) (time.Time, error) {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	switch s {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	day, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q, expected YYYY-MM-DD: %w", s, err)
	}
	return day, nil
}

// WeekStreak counts how many consecutive ISO weeks, ending with the week of now, contain at
// least one of the given times.
func WeekStreak(times []time.Time, now time.Time) int {
	weekSet := make(map[string]bool)
	for _, t := range times {
		year, week := t.ISOWeek()
		weekSet[fmt.Sprintf("%d-%02d", year, week)] = true
	}

	streak := 0
	year, week := now.ISOWeek()
	for weekSet[fmt.Sprintf("%d-%02d", year, week)] {
		streak++
		now = now.AddDate(0, 0, -7)
		year, week = now.ISOWeek()
	}
	return streak
}
