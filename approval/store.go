package approval

import (
	"context"
	"sync"
)

// Lister abstracts the repository read the store depends on.
type Lister interface {
	List(ctx context.Context, scope StatusScope) ([]Record, error)
}

// Store materializes the approval list for one status scope and keeps it
// available to readers across refreshes. A failed refresh preserves the
// previous list (stale but visible) and records the error instead of
// discarding state. Concurrent refreshes are not deduplicated; the last
// completed fetch wins.
type Store struct {
	lister Lister
	scope  StatusScope

	mu       sync.RWMutex
	records  []Record
	err      error
	inflight int
}

// NewStore builds a store over the given lister, scoped to one status.
func NewStore(lister Lister, scope StatusScope) *Store {
	return &Store{lister: lister, scope: scope}
}

// Refresh fetches the current record set. On success the held list is
// replaced wholesale, so readers always observe a complete snapshot. The
// error is both returned and retained as state for pull-based readers.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	records, err := s.lister.List(ctx, s.scope)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if err != nil {
		s.err = err
		return err
	}
	s.records = records
	s.err = nil
	return nil
}

// Records returns the held snapshot. The slice is replaced, never
// mutated in place, so callers may read it without copying but must not
// modify it.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Err returns the error recorded by the most recent refresh, nil after a
// success.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Loading reports whether any refresh is currently in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Scope returns the status scope this store was built for.
func (s *Store) Scope() StatusScope {
	return s.scope
}
