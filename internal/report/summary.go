package report

import (
	"time"

	"github.com/Tiliavir/sip/internal/model"
)

// DaySummary is one row of the rolling history.
type DaySummary struct {
	Date      time.Time
	Label     string
	Total     int
	OverLimit bool
	Entries   []model.Entry
}

// Summary is the rolling 7-day history of one vertical.
type Summary struct {
	Days    []DaySummary
	Average int
	Limit   int
}

// Summarize builds the 7-day history for display and export.
func Summarize(entries []model.Entry, today time.Time, limit int) Summary {
	buckets := Last7Days(entries, today)
	s := Summary{
		Days:    make([]DaySummary, 0, len(buckets)),
		Average: DailyAverageOver7Days(entries, today),
		Limit:   limit,
	}
	for _, b := range buckets {
		total := b.Total()
		s.Days = append(s.Days, DaySummary{
			Date:      b.Date,
			Label:     DayLabel(b.Date, today),
			Total:     total,
			OverLimit: total > limit,
			Entries:   b.Entries,
		})
	}
	return s
}
