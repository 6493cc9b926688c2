package intake

import "github.com/Tiliavir/sip/internal/model"

// ChangeKind says what a mutation did.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeDeleted
)

func (k ChangeKind) String() string {
	if k == ChangeAdded {
		return "added"
	}
	return "deleted"
}

// Change is delivered to subscribers after every successful add or delete.
type Change struct {
	Kind  ChangeKind
	Entry model.Entry
}

type subscriber struct {
	id int
	fn func(Change)
}

// Subscribe registers fn to be called synchronously, on the mutating
// goroutine, after each add or delete. The returned func removes it.
// A nil fn registers nothing.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.add(fn)
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		s.remove(id)
		s.subMu.Unlock()
	}
}

// OnChange sets the single change callback, replacing the previous one.
// Listeners added with Subscribe are not affected. A nil fn clears it.
func (s *Store) OnChange(fn func(Change)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.slotID >= 0 {
		s.remove(s.slotID)
		s.slotID = -1
	}
	if fn != nil {
		s.slotID = s.add(fn)
	}
}

// add and remove expect s.subMu to be held.
func (s *Store) add(fn func(Change)) int {
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return id
}

func (s *Store) remove(id int) {
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.subMu.Unlock()
	for _, sub := range subs {
		sub.fn(c)
	}
}
