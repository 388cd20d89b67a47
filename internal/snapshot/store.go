package snapshot

import "sync/atomic"

// Store holds the latest published Snapshot. Publish swaps a pointer, so a
// reader sees either the previous snapshot or the new one, never a mix.
// No history is kept.
type Store struct {
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
}

// NewStore returns an empty store. Current reports unavailable until the
// first Publish.
func NewStore() *Store {
	return &Store{}
}

// Publish replaces the current snapshot. A nil snapshot is ignored so a
// failed sample can never clear the last good value.
func (s *Store) Publish(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.current.Store(snap)
	s.generation.Add(1)
}

// Current returns the latest published snapshot, or false before the first
// publish.
func (s *Store) Current() (*Snapshot, bool) {
	snap := s.current.Load()
	return snap, snap != nil
}

// Generation counts successful publishes.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}
