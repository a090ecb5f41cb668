package models

import (
	"time"

	"travel.snapevent.app/internal/clock"
)

// ResponseModel is the envelope every JSON endpoint returns.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data,omitempty"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime returns the envelope timestamp in Unix
// milliseconds, using the injected clock so tests stay deterministic.
func ResponseCurrentTime(c clock.Clock) int64 {
	if c == nil {
		c = clock.RealClock{}
	}
	return c.NowUnixMilli()
}

// NewEntryResponse wraps a single entry in the standard envelope.
func NewEntryResponse(entry interface{}, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        200,
		CurrentTime: ResponseCurrentTime(c),
		Data:        map[string]interface{}{"entry": entry},
		Text:        "OK",
		Version:     2,
	}
}

// CurrentTimeData is the entry of the current-time endpoint.
type CurrentTimeData struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
}

// NewCurrentTimeData builds a CurrentTimeData from a time value.
func NewCurrentTimeData(t time.Time) CurrentTimeData {
	return CurrentTimeData{
		ReadableTime: t.Format(time.RFC3339),
		Time:         t.UnixMilli(),
	}
}

// UnavailableReason explains why a selected participant has no schedule.
type UnavailableReason string

const (
	// ReasonMissingLocation means the participant has neither a home
	// coordinate nor a starting-location override.
	ReasonMissingLocation UnavailableReason = "location data needed"
	// ReasonNoRoute means the routing provider found no usable route
	// for at least one leg.
	ReasonNoRoute UnavailableReason = "unable to calculate route"
)

// UnavailableParticipant itemizes one participant omitted from a
// schedule set, with a hint the UI can display.
type UnavailableParticipant struct {
	ParticipantID   string            `json:"participantId"`
	ParticipantName string            `json:"participantName"`
	Reason          UnavailableReason `json:"reason"`
}

// ScheduleSetEntry is the payload of the schedules-for-event endpoints.
type ScheduleSetEntry struct {
	EventID     string                   `json:"eventId"`
	FromCache   bool                     `json:"fromCache"`
	Schedules   []TravelSchedule         `json:"schedules"`
	Unavailable []UnavailableParticipant `json:"unavailable,omitempty"`
}
