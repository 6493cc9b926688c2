// Package intake holds the per-vertical entry store: the master list of
// logged drinks, its persistence and the change notifications.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Tiliavir/sip/internal/config"
	"github.com/Tiliavir/sip/internal/log"
	"github.com/Tiliavir/sip/internal/model"
	"github.com/Tiliavir/sip/internal/report"
	"github.com/Tiliavir/sip/internal/storage"
	"github.com/Tiliavir/sip/internal/timecalc"
)

var (
	// ErrStaleIndex is returned by DeleteFromDay when the index does not
	// address an entry of that day. The store is left untouched.
	ErrStaleIndex = errors.New("entry index out of range")
	// ErrPersist wraps a failed save. The in-memory mutation still happened.
	ErrPersist = errors.New("persisting entries failed")
	// ErrNegativeAmount is returned by Add for amounts below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// LoadStatus describes what Open found in storage.
type LoadStatus int

const (
	// LoadedOK means a stored list was decoded.
	LoadedOK LoadStatus = iota
	// LoadedEmpty means nothing was stored yet.
	LoadedEmpty
	// LoadedRecovered means the stored blob was unreadable and the store
	// started empty. The blob is kept under <key>.corrupt.
	LoadedRecovered
)

func (s LoadStatus) String() string {
	switch s {
	case LoadedOK:
		return "ok"
	case LoadedEmpty:
		return "empty"
	default:
		return "recovered"
	}
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store is the entry store of one vertical.
type Store struct {
	vertical config.Vertical
	kv       storage.KV
	now      func() time.Time
	logger   *log.Logger

	mu      sync.Mutex
	entries []model.Entry

	loadStatus LoadStatus
	loadErr    error

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int
	slotID  int
}

// Open loads the entry list of v from kv. It does not fail on unreadable
// data: the store starts empty and LoadStatus reports the recovery.
func Open(ctx context.Context, kv storage.KV, v config.Vertical, opts ...Option) *Store {
	s := &Store{
		vertical: v,
		kv:       kv,
		now:      time.Now,
		logger:   log.Discard(),
		slotID:   -1,
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentIntake).With(log.FieldVertical, v.Name)
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	data, ok, err := s.kv.Get(ctx, s.vertical.StorageKey)
	if err != nil {
		s.logger.Warn("reading entries failed, starting empty", log.FieldKey, s.vertical.StorageKey, log.FieldError, err)
		s.loadStatus, s.loadErr = LoadedRecovered, err
		return
	}
	if !ok {
		s.loadStatus = LoadedEmpty
		return
	}

	var entries []model.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("stored entries not decodable, starting empty", log.FieldKey, s.vertical.StorageKey, log.FieldError, err)
		s.loadStatus, s.loadErr = LoadedRecovered, fmt.Errorf("decoding %s: %w", s.vertical.StorageKey, err)
		s.backupCorrupt(ctx, data)
		return
	}
	s.entries = entries
	s.loadStatus = LoadedOK
	s.logger.Debug("entries loaded", log.FieldCount, len(entries))
}

// backupCorrupt keeps the unreadable blob so the next save does not destroy it.
func (s *Store) backupCorrupt(ctx context.Context, data []byte) {
	key := s.vertical.StorageKey + ".corrupt"
	if err := s.kv.Set(ctx, key, data); err != nil {
		s.logger.Warn("could not back up corrupt entries", log.FieldKey, key, log.FieldError, err)
	}
}

// LoadStatus reports what Open found. Err is set for LoadedRecovered.
func (s *Store) LoadStatus() (status LoadStatus, err error) {
	return s.loadStatus, s.loadErr
}

// Vertical returns the definition the store was opened with.
func (s *Store) Vertical() config.Vertical { return s.vertical }

// Now returns the store clock's current time.
func (s *Store) Now() time.Time { return s.now() }

// Add logs a new entry at the given time, persists the list and notifies
// subscribers. overLimit reports whether the total of that day, taken in the
// store clock's location, now exceeds the daily limit. A save failure is returned wrapped in ErrPersist; the
// entry is kept in memory regardless.
func (s *Store) Add(name string, amount int, at time.Time) (overLimit bool, err error) {
	if amount < 0 {
		return false, fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	e := model.Entry{ID: timecalc.NewID(), Name: name, Amount: amount, Date: at}

	s.mu.Lock()
	s.entries = append(s.entries, e)
	saveErr := s.save()
	overLimit = report.IsOverLimit(s.entries, at.In(s.now().Location()), s.vertical.DailyLimit)
	s.mu.Unlock()

	s.logger.Debug("entry added", log.FieldEntryID, e.ID, log.FieldAmount, amount)
	s.notify(Change{Kind: ChangeAdded, Entry: e})
	return overLimit, saveErr
}

// AddNow is Add at the store clock's current time.
func (s *Store) AddNow(name string, amount int) (bool, error) {
	return s.Add(name, amount, s.now())
}

// DeleteFromDay removes the index-th entry of EntriesForDay(day). An index
// outside [0, CountForDay(day)) returns ErrStaleIndex without touching the
// store or notifying anyone.
func (s *Store) DeleteFromDay(day time.Time, index int) error {
	s.mu.Lock()
	dayEntries := report.EntriesForDay(s.entries, day)
	if index < 0 || index >= len(dayEntries) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d (have %d)", ErrStaleIndex, index, len(dayEntries))
	}
	victim := dayEntries[index]
	kept := s.entries[:0:0]
	for _, e := range s.entries {
		if e.ID != victim.ID {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	saveErr := s.save()
	s.mu.Unlock()

	s.logger.Debug("entry deleted", log.FieldEntryID, victim.ID)
	s.notify(Change{Kind: ChangeDeleted, Entry: victim})
	return saveErr
}

// DeleteToday is DeleteFromDay for the current day.
func (s *Store) DeleteToday(index int) error {
	return s.DeleteFromDay(s.now(), index)
}

// save writes the whole list. Callers hold s.mu.
func (s *Store) save() error {
	entries := s.entries
	if entries == nil {
		entries = []model.Entry{}
	}
	data, err := json.Marshal(entries)
	if err == nil {
		err = s.kv.Set(context.Background(), s.vertical.StorageKey, data)
	}
	if err != nil {
		s.logger.Error("saving entries failed", log.FieldKey, s.vertical.StorageKey, log.FieldError, err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Entries returns a copy of the master list in insertion order.
func (s *Store) Entries() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Entry(nil), s.entries...)
}

// EntriesForDay returns the entries on day's calendar date, in insertion order.
func (s *Store) EntriesForDay(day time.Time) []model.Entry {
	return report.EntriesForDay(s.Entries(), day)
}

// EntriesToday is EntriesForDay for the current day.
func (s *Store) EntriesToday() []model.Entry {
	return s.EntriesForDay(s.now())
}

// EntryFromDay returns the index-th entry of day.
func (s *Store) EntryFromDay(day time.Time, index int) (model.Entry, bool) {
	entries := s.EntriesForDay(day)
	if index < 0 || index >= len(entries) {
		return model.Entry{}, false
	}
	return entries[index], true
}

// CountForDay returns the number of entries on day.
func (s *Store) CountForDay(day time.Time) int {
	return len(s.EntriesForDay(day))
}

// TotalToday sums today's amounts.
func (s *Store) TotalToday() int {
	return report.TotalToday(s.Entries(), s.now())
}

// OverLimitToday reports whether today's total exceeds the daily limit.
func (s *Store) OverLimitToday() bool {
	return report.IsOverLimit(s.Entries(), s.now(), s.vertical.DailyLimit)
}

// Last7Days returns the rolling week ending today, oldest first.
func (s *Store) Last7Days() []model.DayBucket {
	return report.Last7Days(s.Entries(), s.now())
}

// DailyAverageOver7Days is the truncated mean of the last seven daily totals.
func (s *Store) DailyAverageOver7Days() int {
	return report.DailyAverageOver7Days(s.Entries(), s.now())
}

// Summary builds the labelled week overview.
func (s *Store) Summary() report.Summary {
	return report.Summarize(s.Entries(), s.now(), s.vertical.DailyLimit)
}
