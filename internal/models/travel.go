package models

import "time"

// TransportMode identifies how a participant travels to an event.
type TransportMode string

const (
	ModeDriving   TransportMode = "driving"
	ModeWalking   TransportMode = "walking"
	ModeTransit   TransportMode = "transit"
	ModeBicycling TransportMode = "bicycling"
)

// DefaultTransportMode is assumed for participants with no stored preference.
const DefaultTransportMode = ModeDriving

// IsValid reports whether m is one of the supported transport modes.
func (m TransportMode) IsValid() bool {
	switch m {
	case ModeDriving, ModeWalking, ModeTransit, ModeBicycling:
		return true
	}
	return false
}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Participant is one attendee of an event as supplied by the
// user-profile collaborator. Home and Modes are optional; absence is
// represented with a nil pointer / nil slice rather than zero values so
// "unset" and "0,0" cannot be confused.
type Participant struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	AvatarURL string          `json:"avatarUrl,omitempty"`
	Home      *Coordinate     `json:"home,omitempty"`
	Modes     []TransportMode `json:"modes,omitempty"`
}

// TransitStopInfo describes one end of a transit step.
type TransitStopInfo struct {
	Name          string     `json:"name"`
	Location      Coordinate `json:"location"`
	ScheduledTime string     `json:"scheduledTime,omitempty"`
}

// TransitDetail carries the transit-specific portion of a step. It is
// only populated for steps taken on the transit mode.
type TransitDetail struct {
	DepartureStop TransitStopInfo `json:"departureStop"`
	ArrivalStop   TransitStopInfo `json:"arrivalStop"`
	LineName      string          `json:"lineName,omitempty"`
	LineShortName string          `json:"lineShortName,omitempty"`
	VehicleType   string          `json:"vehicleType,omitempty"`
	Headsign      string          `json:"headsign,omitempty"`
	NumStops      int             `json:"numStops"`
}

// TravelStep is a single instruction within a leg.
type TravelStep struct {
	Instruction     string         `json:"instruction"`
	DurationMinutes int            `json:"durationMinutes"`
	Distance        string         `json:"distance"`
	Mode            TransportMode  `json:"mode"`
	Transit         *TransitDetail `json:"transit,omitempty"`
}

// TravelLeg is one directional trip: either home-to-event (outbound) or
// event-to-home (return). DepartureTime and ArrivalTime are zero when
// the routing provider supplied no explicit timing and the caller has
// not yet derived display times from the leg duration.
type TravelLeg struct {
	DepartureTime   time.Time    `json:"departureTime"`
	ArrivalTime     time.Time    `json:"arrivalTime"`
	DurationMinutes int          `json:"durationMinutes"`
	Distance        string       `json:"distance"`
	Steps           []TravelStep `json:"steps"`
}

// HasTiming reports whether both instants of the leg are populated.
func (l TravelLeg) HasTiming() bool {
	return !l.DepartureTime.IsZero() && !l.ArrivalTime.IsZero()
}

// TravelSchedule is one participant's computed round trip for an event.
type TravelSchedule struct {
	ParticipantID   string        `json:"participantId"`
	ParticipantName string        `json:"participantName"`
	Mode            TransportMode `json:"mode"`
	Outbound        TravelLeg     `json:"outbound"`
	Return          TravelLeg     `json:"return"`
}
