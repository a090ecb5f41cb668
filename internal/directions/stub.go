package directions

import (
	"context"
	"fmt"
	"sync"

	"travel.snapevent.app/internal/models"
)

// StubGateway is a programmable Gateway used by tests and by local
// development without a provider API key. Legs are replayed by
// origin/destination/mode; unknown lookups fall back to DefaultLeg or
// ErrNoRoute.
type StubGateway struct {
	mu     sync.Mutex
	legs   map[string]*models.TravelLeg
	failed map[string]bool
	calls  []Request

	// DefaultLeg, when set, answers any lookup without a canned leg.
	DefaultLeg *models.TravelLeg
}

// NewStubGateway creates an empty stub.
func NewStubGateway() *StubGateway {
	return &StubGateway{
		legs:   make(map[string]*models.TravelLeg),
		failed: make(map[string]bool),
	}
}

func stubKey(origin, destination models.Coordinate, mode models.TransportMode) string {
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f|%s", origin.Lat, origin.Lng, destination.Lat, destination.Lng, mode)
}

// SetLeg registers a canned leg for an origin/destination/mode triple.
func (s *StubGateway) SetLeg(origin, destination models.Coordinate, mode models.TransportMode, leg *models.TravelLeg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legs[stubKey(origin, destination, mode)] = leg
}

// FailRoute makes an origin/destination/mode triple answer ErrNoRoute.
func (s *StubGateway) FailRoute(origin, destination models.Coordinate, mode models.TransportMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[stubKey(origin, destination, mode)] = true
}

// Calls returns a copy of every request seen so far, in order.
func (s *StubGateway) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many requests the stub has served.
func (s *StubGateway) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Reset clears recorded calls but keeps canned legs.
func (s *StubGateway) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Directions replays the canned leg for the request, recording the call.
func (s *StubGateway) Directions(_ context.Context, req Request) (*models.TravelLeg, error) {
	if err := req.Timing.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)

	key := stubKey(req.Origin, req.Destination, req.Mode)
	if s.failed[key] {
		return nil, ErrNoRoute
	}
	leg, ok := s.legs[key]
	if !ok {
		leg = s.DefaultLeg
	}
	if leg == nil {
		return nil, ErrNoRoute
	}
	return copyLeg(leg), nil
}

// copyLeg returns an independent copy so callers can derive display
// times without mutating the canned leg.
func copyLeg(leg *models.TravelLeg) *models.TravelLeg {
	out := *leg
	out.Steps = make([]models.TravelStep, len(leg.Steps))
	copy(out.Steps, leg.Steps)
	return &out
}
