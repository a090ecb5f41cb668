// Package directions wraps the external routing provider behind a
// narrow gateway: one call that turns an origin, a destination, a
// transport mode and a time anchor into a single travel leg.
package directions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel.snapevent.app/internal/models"
)

// ErrNoRoute is returned whenever the provider yields nothing usable
// for a leg: call failure, zero routes, or a leg missing duration,
// distance or steps. Callers treat it as "this participant has no
// schedule", never as a batch-level failure.
var ErrNoRoute = errors.New("no usable route")

// Timing anchors a directions request to either a desired arrival
// instant or a desired departure instant. Exactly one must be set.
type Timing struct {
	ArriveBy *time.Time
	DepartAt *time.Time
}

// ArriveByTiming builds a Timing anchored on arrival.
func ArriveByTiming(t time.Time) Timing {
	return Timing{ArriveBy: &t}
}

// DepartAtTiming builds a Timing anchored on departure.
func DepartAtTiming(t time.Time) Timing {
	return Timing{DepartAt: &t}
}

// Validate rejects timings with neither or both anchors set. That is a
// caller error, reported before any provider call is made.
func (t Timing) Validate() error {
	if t.ArriveBy == nil && t.DepartAt == nil {
		return fmt.Errorf("timing requires an arriveBy or departAt anchor")
	}
	if t.ArriveBy != nil && t.DepartAt != nil {
		return fmt.Errorf("timing cannot have both arriveBy and departAt anchors")
	}
	return nil
}

// Request describes one directions lookup.
type Request struct {
	Origin      models.Coordinate
	Destination models.Coordinate
	Mode        models.TransportMode
	Timing      Timing
}

// Gateway is the routing provider boundary. Implementations must
// return ErrNoRoute (possibly wrapped) for every provider-side failure
// so a single participant's failure cannot crash a batch.
type Gateway interface {
	Directions(ctx context.Context, req Request) (*models.TravelLeg, error)
}
