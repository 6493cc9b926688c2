package model

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a single logged consumption event.
type Entry struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Amount int       `json:"amount"`
	Date   time.Time `json:"date"`
}

// CatalogItem is a selectable drink definition shipped with the application.
type CatalogItem struct {
	Name     string `json:"name"`
	Amount   int    `json:"amount"`
	Category string `json:"category"`
}

// DayBucket pairs a calendar day with the entries logged on it.
type DayBucket struct {
	Date    time.Time
	Entries []Entry
}

// Total sums the amounts of the bucket's entries.
func (b DayBucket) Total() int {
	total := 0
	for _, e := range b.Entries {
		total += e.Amount
	}
	return total
}
