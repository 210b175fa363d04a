package snapshot

import "sync"

// Store holds the single current authoritative snapshot. Exactly one
// component (the sync driver) writes to it; everything else reads.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
	ready   bool
}

// NewStore creates an empty store. Current returns the zero-value
// sentinel until the first Replace.
func NewStore() *Store {
	return &Store{}
}

// Replace installs next as the current snapshot, unconditionally. There is
// no merge: the previous snapshot is discarded wholesale.
func (s *Store) Replace(next Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	s.ready = true
}

// Current returns the last installed snapshot, or the zero-value sentinel
// before the first install.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Ready reports whether a snapshot has been installed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}
