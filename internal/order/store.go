package order

import "lunchtime-bot/internal/catalog"

// Store owns the current selection for one chat and notifies subscribers
// after every mutation. It is not safe for concurrent use: all updates for a
// chat are funneled through the bot's single update-processing goroutine, so
// the store relies on that ownership instead of a lock.
type Store struct {
	selection Selection

	subscribers map[int]func(Selection)
	nextSubID   int
}

// NewStore creates a store with an empty selection.
func NewStore() *Store {
	return &Store{
		selection:   NewSelection(),
		subscribers: make(map[int]func(Selection)),
	}
}

// Subscribe registers a callback invoked after every mutation with a snapshot
// of the new selection. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Selection)) func() {
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		delete(s.subscribers, id)
	}
}

// Select places a dish in the given slot, replacing whatever was there. A
// nil dish clears the slot. Re-selecting the already chosen dish still counts
// as a mutation and notifies, so downstream surfaces always resync. A dish
// whose category disagrees with the slot is rejected and leaves the selection
// untouched.
func (s *Store) Select(c catalog.Category, dish *catalog.Dish) error {
	if _, ok := catalog.ParseCategory(string(c)); !ok {
		return ErrCategoryMismatch
	}
	if dish == nil {
		s.Clear(c)
		return nil
	}
	if dish.Category != c {
		return ErrCategoryMismatch
	}
	s.selection[c] = dish
	s.notify()
	return nil
}

// Clear empties one slot. Clearing an already empty slot still notifies.
func (s *Store) Clear(c catalog.Category) {
	delete(s.selection, c)
	s.notify()
}

// ResetAll empties every slot in one mutation.
func (s *Store) ResetAll() {
	s.selection = NewSelection()
	s.notify()
}

// Restore replaces the whole selection at once, emitting a single
// notification. Used when rehydrating from storage or applying a share link,
// where per-slot Select calls would fan out one notification per dish.
func (s *Store) Restore(sel Selection) {
	s.selection = sel.Clone()
	s.notify()
}

// Get returns the dish in a slot, or nil.
func (s *Store) Get(c catalog.Category) *catalog.Dish {
	return s.selection.Get(c)
}

// Snapshot returns a copy of the current selection.
func (s *Store) Snapshot() Selection {
	return s.selection.Clone()
}

func (s *Store) notify() {
	snapshot := s.selection.Clone()
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}
