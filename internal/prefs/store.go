// Package prefs resolves per-participant transport mode preferences.
// Preferences live in an external store; this package owns the batch
// lookup and the default-mode fallback.
package prefs

import (
	"context"
	"sync"

	"travel.snapevent.app/internal/models"
)

// Store is the preference lookup boundary. A missing entry is not an
// error: the returned map simply lacks that participant's key.
type Store interface {
	// ModesForParticipants batch-fetches preference lists for all ids.
	ModesForParticipants(ctx context.Context, participantIDs []string) (map[string][]models.TransportMode, error)
}

// InMemoryStore is a Store backed by a map, used in tests and local
// development.
type InMemoryStore struct {
	mu    sync.RWMutex
	modes map[string][]models.TransportMode

	// FailLookups makes every batch call fail, for testing the
	// degraded path.
	FailLookups bool
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{modes: make(map[string][]models.TransportMode)}
}

// SetModes stores a participant's ordered preference list.
func (s *InMemoryStore) SetModes(participantID string, modes []models.TransportMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modes[participantID] = modes
}

// ModesForParticipants returns stored preference lists for the given ids.
func (s *InMemoryStore) ModesForParticipants(_ context.Context, participantIDs []string) (map[string][]models.TransportMode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailLookups {
		return nil, errLookupFailed
	}

	out := make(map[string][]models.TransportMode, len(participantIDs))
	for _, id := range participantIDs {
		if modes, ok := s.modes[id]; ok {
			copied := make([]models.TransportMode, len(modes))
			copy(copied, modes)
			out[id] = copied
		}
	}
	return out, nil
}
