// Package report computes per-day aggregates over intake entries. All
// functions are pure: they never mutate their input and never fail.
package report

import (
	"fmt"
	"time"

	"github.com/Tiliavir/sip/internal/model"
	"github.com/Tiliavir/sip/internal/timecalc"
)

// WindowDays is the length of the rolling history window.
const WindowDays = 7

// EntriesForDay returns the entries whose timestamp falls on the calendar day
// of day, in their original order.
func EntriesForDay(entries []model.Entry, day time.Time) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if timecalc.SameDay(day, e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// TotalForDay sums the amounts logged on day.
func TotalForDay(entries []model.Entry, day time.Time) int {
	total := 0
	for _, e := range EntriesForDay(entries, day) {
		total += e.Amount
	}
	return total
}

// TotalToday is TotalForDay for the day of now.
func TotalToday(entries []model.Entry, now time.Time) int {
	return TotalForDay(entries, now)
}

// Last7Days returns exactly seven buckets, oldest first. The last bucket is
// today, the first is six calendar days earlier.
func Last7Days(entries []model.Entry, today time.Time) []model.DayBucket {
	buckets := make([]model.DayBucket, WindowDays)
	for i := range buckets {
		day := timecalc.DaysBack(today, WindowDays-1-i)
		buckets[i] = model.DayBucket{
			Date:    day,
			Entries: EntriesForDay(entries, day),
		}
	}
	return buckets
}

// DailyAverageOver7Days divides the sum of the seven daily totals by seven,
// truncating. Days before the first entry still count as zero days.
func DailyAverageOver7Days(entries []model.Entry, today time.Time) int {
	sum := 0
	for _, b := range Last7Days(entries, today) {
		sum += b.Total()
	}
	return sum / WindowDays
}

// IsOverLimit reports whether the total for day strictly exceeds limit.
func IsOverLimit(entries []model.Entry, day time.Time, limit int) bool {
	return TotalForDay(entries, day) > limit
}

// DayLabel names day relative to today: "Today", "Yesterday" or "N days ago".
func DayLabel(day, today time.Time) string {
	switch n := timecalc.DaysBetween(day, today); n {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", n)
	}
}
