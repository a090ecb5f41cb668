package restapi

import (
	"errors"
	"net/http"

	"travel.snapevent.app/internal/events"
	"travel.snapevent.app/internal/models"
	"travel.snapevent.app/internal/schedcache"
	"travel.snapevent.app/internal/utils"
)

// schedulesForEventHandler returns the travel schedule set for every
// participant of an event. Results come from the schedule cache unless
// the caller passes regenerate=true.
func (api *RestAPI) schedulesForEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID := utils.ExtractIDFromParams(r)

	if err := utils.ValidateID(eventID); err != nil {
		fieldErrors := map[string][]string{
			"id": {err.Error()},
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

	result, err := api.Schedules.Schedules(ctx, schedcache.Request{
		Event:        event.EventWindow,
		Participants: event.Participants,
		Overrides:    event.StartingLocations,
		Force:        utils.BoolParam(r, "regenerate"),
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

	// An event where nobody gets a schedule still returns an empty
	// array, not null.
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
