package timecalc

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh random entry identifier.
func NewID() uuid.UUID {
	return uuid.New()
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
// b is converted into a's location first, so stored timestamps with a
// different offset still compare by the caller's local calendar.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBack returns the start of the calendar day n days before t.
// Calendar arithmetic is used, so DST transitions do not shift the day.
func DaysBack(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, -n)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	b = b.In(a.Location())
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ParseDay parses a YYYY-MM-DD date in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// ParseAt parses a timestamp given on the command line relative to now.
// Accepted forms are RFC3339, "YYYY-MM-DD HH:MM" and "HH:MM" (today). The
// result is always in now's location.
func ParseAt(s string, now time.Time) (time.Time, error) {
	loc := now.Location()
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", s, loc); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (want RFC3339, \"YYYY-MM-DD HH:MM\" or \"HH:MM\")", s)
}
