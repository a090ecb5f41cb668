// test_helper_test.go wires a fully in-memory API instance for the
// handler tests: stub routing gateway, in-memory stores, and a seeded
// event with one routable and one location-less participant.
package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"travel.snapevent.app/internal/app"
	"travel.snapevent.app/internal/appconf"
	"travel.snapevent.app/internal/clock"
	"travel.snapevent.app/internal/directions"
	"travel.snapevent.app/internal/events"
	"travel.snapevent.app/internal/models"
	"travel.snapevent.app/internal/prefs"
	"travel.snapevent.app/internal/schedcache"
	"travel.snapevent.app/internal/scheduler"
)

const (
	testEventID = "evt_lakeside"

	participantWithHome    = "usr_priya"
	participantWithoutHome = "usr_marcus"
)

var (
	testEventStart = time.Date(2026, 7, 18, 14, 0, 0, 0, time.UTC)
	testEventEnd   = time.Date(2026, 7, 18, 15, 0, 0, 0, time.UTC)

	testDestination = models.Coordinate{Lat: 43.4668, Lng: -80.5164}
	testHome        = models.Coordinate{Lat: 43.4516, Lng: -80.4925}
)

func testEvent() models.Event {
	return models.Event{
		EventWindow: models.EventWindow{
			ID:              testEventID,
			Destination:     testDestination,
			DestinationName: "Lakeside Pavilion",
			Start:           testEventStart,
			End:             testEventEnd,
		},
		Participants: []models.Participant{
			{ID: participantWithHome, Name: "Priya", Home: &testHome},
			{ID: participantWithoutHome, Name: "Marcus"},
		},
	}
}

func defaultStubLeg() *models.TravelLeg {
	return &models.TravelLeg{
		DurationMinutes: 20,
		Distance:        "12.4 km",
		Steps: []models.TravelStep{
			{Instruction: "Head north on King St", Mode: models.ModeDriving},
		},
	}
}

// createTestApi builds an API backed entirely by in-memory fakes.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	return createTestApiWithClock(t, clock.RealClock{})
}

// createTestApiWithClock is createTestApi with an injectable clock for
// deterministic-time tests.
func createTestApiWithClock(t *testing.T, c clock.Clock) *RestAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gateway := directions.NewStubGateway()
	gateway.DefaultLeg = defaultStubLeg()

	eventStore := events.NewInMemoryStore()
	eventStore.PutEvent(testEvent())

	resolver := prefs.NewResolver(prefs.NewInMemoryStore(), logger)
	orchestrator := scheduler.NewOrchestrator(gateway, resolver, logger, nil)
	cache := schedcache.NewCache(schedcache.NewMemoryStore(), orchestrator, c, logger, nil)

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.Test,
			ApiKeys:   []string{"TEST"},
			RateLimit: 100,
		},
		Logger:     logger,
		Clock:      c,
		Directions: gateway,
		Events:     eventStore,
		Prefs:      resolver,
		Schedules:  cache,
	}

	api := NewRestAPI(application)
	t.Cleanup(api.Shutdown)
	return api
}

// testGateway digs the stub gateway back out of a test API.
func testGateway(t *testing.T, api *RestAPI) *directions.StubGateway {
	t.Helper()
	gateway, ok := api.Directions.(*directions.StubGateway)
	require.True(t, ok, "test API must use the stub gateway")
	return gateway
}

// serveAndRetrieveEndpoint builds a fresh test API, performs a GET
// against the endpoint, and decodes the response envelope.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	t.Helper()
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

// serveApiAndRetrieveEndpoint performs a GET against an existing test
// API and decodes the response envelope.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	return serveRequest(t, api, http.MethodGet, endpoint, nil)
}

// serveRequest routes an arbitrary request through the full mux so
// middleware and path matching behave as in production.
func serveRequest(t *testing.T, api *RestAPI, method, endpoint string, body io.Reader) (*http.Response, models.ResponseModel) {
	t.Helper()

	mux := http.NewServeMux()
	api.SetRoutes(mux)

	req := httptest.NewRequest(method, endpoint, body)
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)

	resp := recorder.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })

	var model models.ResponseModel
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &model), "response body: %s", raw)
	}
	return resp, model
}

// retrieveEntry casts the envelope data down to its entry object.
func retrieveEntry(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "could not cast data to expected type")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "could not find entry in response data")
	return entry
}
