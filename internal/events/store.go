// Package events loads event records for the schedule endpoints. The
// core never mutates events; editing belongs to the event-editing
// collaborator.
package events

import (
	"context"
	"errors"
	"sync"

	"travel.snapevent.app/internal/models"
)

// ErrNotFound is returned when no event exists for an id.
var ErrNotFound = errors.New("event not found")

// Store is the event lookup boundary.
type Store interface {
	// GetEvent returns the full event record: window, participants and
	// stored starting-location overrides.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// InMemoryStore is a Store backed by a map, used in tests and local
// development.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string]models.Event
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string]models.Event)}
}

// PutEvent stores an event record.
func (s *InMemoryStore) PutEvent(event models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event
}

// GetEvent returns a copy of the stored event or ErrNotFound.
func (s *InMemoryStore) GetEvent(_ context.Context, eventID string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return &event, nil
}

// Ping always succeeds for the in-memory store.
func (s *InMemoryStore) Ping(context.Context) error {
	return nil
}
