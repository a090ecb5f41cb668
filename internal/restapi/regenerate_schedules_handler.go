package restapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"travel.snapevent.app/internal/events"
	"travel.snapevent.app/internal/models"
	"travel.snapevent.app/internal/schedcache"
	"travel.snapevent.app/internal/utils"
)

// regenerateRequestBody is the optional POST body for forced
// regeneration. Overrides given here win over the ones stored with
// the event.
type regenerateRequestBody struct {
	StartingLocations map[string]models.Coordinate `json:"startingLocations"`
}

// regenerateSchedulesHandler recomputes the schedule set for an event,
// replacing whatever the cache held. An empty body regenerates with
// the event's stored starting locations.
func (api *RestAPI) regenerateSchedulesHandler(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	if err := utils.ValidateID(eventID); err != nil {
		fieldErrors := map[string][]string{
			"id": {err.Error()},
		}
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	var body regenerateRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		fieldErrors := map[string][]string{
			"body": {"request body must be valid JSON"},
		}
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	ctx := r.Context()

	event, err := api.Events.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			api.sendNotFound(w, r)
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	overrides := mergeOverrides(event.StartingLocations, body.StartingLocations)

	result, err := api.Schedules.Schedules(ctx, schedcache.Request{
		Event:        event.EventWindow,
		Participants: event.Participants,
		Overrides:    overrides,
		Force:        true,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidWindow) {
			fieldErrors := map[string][]string{
				"event": {err.Error()},
			}
			api.validationErrorResponse(w, r, fieldErrors)
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	if result.Schedules == nil {
		result.Schedules = []models.TravelSchedule{}
	}

	entry := models.ScheduleSetEntry{
		EventID:     event.ID,
		FromCache:   result.FromCache,
		Schedules:   result.Schedules,
		Unavailable: result.Unavailable,
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry, api.Clock))
}

// mergeOverrides layers request-supplied starting locations over the
// stored ones without mutating either map.
func mergeOverrides(stored, supplied map[string]models.Coordinate) map[string]models.Coordinate {
	if len(supplied) == 0 {
		return stored
	}
	merged := make(map[string]models.Coordinate, len(stored)+len(supplied))
	for id, coord := range stored {
		merged[id] = coord
	}
	for id, coord := range supplied {
		merged[id] = coord
	}
	return merged
}
