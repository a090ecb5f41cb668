package models

import (
	"errors"
	"time"
)

// ErrInvalidWindow is returned when an event's time window is unusable
// for schedule computation.
var ErrInvalidWindow = errors.New("event window is invalid")

// EventWindow is the schedule-relevant slice of an event: where it
// happens and when it starts and ends. The event-editing collaborator
// guarantees End is strictly after Start; ValidateWindow re-checks
// because a malformed window is the one input error that escalates to
// the caller.
type EventWindow struct {
	ID              string     `json:"id"`
	Destination     Coordinate `json:"destination"`
	DestinationName string     `json:"destinationName,omitempty"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
}

// ValidateWindow verifies the window can anchor arrive-by and depart-at
// directions requests.
func (w EventWindow) ValidateWindow() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return ErrInvalidWindow
	}
	if !w.End.After(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// Event is the full record the travel-schedule endpoints operate on:
// the window plus the participant list and any stored per-participant
// outbound starting-location overrides, keyed by participant ID.
type Event struct {
	EventWindow
	Participants      []Participant         `json:"participants"`
	StartingLocations map[string]Coordinate `json:"startingLocations,omitempty"`
}
