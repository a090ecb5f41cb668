package schedcache

import (
	"context"
	"errors"
	"sync"
)

var errStoreUnavailable = errors.New("cache store unavailable")

// MemoryStore is an EntryStore backed by a map, used in tests and
// single-process deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry

	// FailOps makes every operation fail, for testing the degraded
	// path.
	FailOps bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get returns a copy of the stored entry or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, eventID string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailOps {
		return nil, errStoreUnavailable
	}
	entry, ok := s.entries[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// Put stores the entry, replacing any previous one for the event.
func (s *MemoryStore) Put(_ context.Context, eventID string, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOps {
		return errStoreUnavailable
	}
	s.entries[eventID] = *entry
	return nil
}

// Delete removes the entry; deleting a missing entry is not an error.
func (s *MemoryStore) Delete(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOps {
		return errStoreUnavailable
	}
	delete(s.entries, eventID)
	return nil
}

// Len reports how many entries the store holds.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
