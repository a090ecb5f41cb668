// Package scheduler computes per-participant travel schedules for an
// event: an outbound leg that arrives by the event start and a return
// leg that departs at the event end.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel.snapevent.app/internal/directions"
	"travel.snapevent.app/internal/models"
)

// ArrivalBufferMinutes is the safety margin subtracted from the event
// start when the provider supplies no explicit timing. It is a product
// heuristic, not a law: changing it changes displayed minutes.
const ArrivalBufferMinutes = 5

// ErrMissingOrigin means a participant has neither a starting-location
// override nor a home coordinate; no outbound leg can be computed.
var ErrMissingOrigin = errors.New("participant has no origin")

// ErrMissingHome means the participant lacks a home coordinate, so the
// return leg cannot be computed. Partial schedules are never returned.
var ErrMissingHome = errors.New("participant has no home coordinate")

// Calculator computes one participant's round trip. It is a pure
// function of its inputs and safe for concurrent use.
type Calculator struct {
	gateway directions.Gateway
}

// NewCalculator constructs a Calculator on top of a directions gateway.
func NewCalculator(gateway directions.Gateway) *Calculator {
	return &Calculator{gateway: gateway}
}

// ComputeSchedule builds the round trip for one participant.
//
// The outbound origin is the override when present, else the home
// coordinate. The return destination is always the home coordinate,
// even when an override was used outbound. Either leg failing with no
// route makes the whole schedule fail; callers omit the participant.
func (c *Calculator) ComputeSchedule(ctx context.Context, participant models.Participant, event models.EventWindow, override *models.Coordinate, mode models.TransportMode) (*models.TravelSchedule, error) {
	origin := override
	if origin == nil {
		origin = participant.Home
	}
	if origin == nil {
		return nil, ErrMissingOrigin
	}
	if participant.Home == nil {
		return nil, ErrMissingHome
	}

	outbound, err := c.gateway.Directions(ctx, directions.Request{
		Origin:      *origin,
		Destination: event.Destination,
		Mode:        mode,
		Timing:      directions.ArriveByTiming(event.Start),
	})
	if err != nil {
		return nil, fmt.Errorf("outbound leg: %w", err)
	}
	if !outbound.HasTiming() {
		deriveOutboundTiming(outbound, event.Start)
	}

	ret, err := c.gateway.Directions(ctx, directions.Request{
		Origin:      event.Destination,
		Destination: *participant.Home,
		Mode:        mode,
		Timing:      directions.DepartAtTiming(event.End),
	})
	if err != nil {
		return nil, fmt.Errorf("return leg: %w", err)
	}
	if !ret.HasTiming() {
		deriveReturnTiming(ret, event.End)
	}

	return &models.TravelSchedule{
		ParticipantID:   participant.ID,
		ParticipantName: participant.Name,
		Mode:            mode,
		Outbound:        *outbound,
		Return:          *ret,
	}, nil
}

// deriveOutboundTiming fills display times when the provider gave
// none: arrive a fixed buffer before the event starts, depart early
// enough to make it.
func deriveOutboundTiming(leg *models.TravelLeg, eventStart time.Time) {
	leg.ArrivalTime = eventStart.Add(-ArrivalBufferMinutes * time.Minute)
	leg.DepartureTime = leg.ArrivalTime.Add(-time.Duration(leg.DurationMinutes) * time.Minute)
}

// deriveReturnTiming fills display times when the provider gave none:
// leave when the event ends.
func deriveReturnTiming(leg *models.TravelLeg, eventEnd time.Time) {
	leg.DepartureTime = eventEnd
	leg.ArrivalTime = eventEnd.Add(time.Duration(leg.DurationMinutes) * time.Minute)
}
