package restapi

import (
	"encoding/json"
	"net/http"

	"travel.snapevent.app/internal/logging"
	"travel.snapevent.app/internal/models"
)

// serverErrorResponse logs the error and sends a generic 500 so
// internal details never leak to clients.
func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.Logger, "server error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", GetRequestID(r.Context()),
	)

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusInternalServerError)

	response := models.ResponseModel{
		Code:        http.StatusInternalServerError,
		CurrentTime: models.ResponseCurrentTime(api.Clock),
		Text:        "the server encountered a problem and could not process your request",
		Version:     2,
	}

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		logging.LogError(api.Logger, "failed to encode error response", encodeErr)
	}
}

// validationErrorResponse sends a 400 with per-field messages in the
// response data.
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	setJSONResponseType(&w)
	w.WriteHeader(http.StatusBadRequest)

	response := models.ResponseModel{
		Code:        http.StatusBadRequest,
		CurrentTime: models.ResponseCurrentTime(api.Clock),
		Data:        map[string]interface{}{"fieldErrors": fieldErrors},
		Text:        "one or more request parameters are invalid",
		Version:     2,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.serverErrorResponse(w, r, err)
	}
}
