package scheduler

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"travel.snapevent.app/internal/directions"
	"travel.snapevent.app/internal/models"
	"travel.snapevent.app/internal/prefs"
)

var (
	homeB = models.Coordinate{Lat: 43.4516, Lng: -80.4925}
	homeC = models.Coordinate{Lat: 43.4856, Lng: -80.5268}
)

// countingStore wraps an InMemoryStore and counts batch lookups.
type countingStore struct {
	*prefs.InMemoryStore
	lookups atomic.Int64
}

func (s *countingStore) ModesForParticipants(ctx context.Context, ids []string) (map[string][]models.TransportMode, error) {
	s.lookups.Add(1)
	return s.InMemoryStore.ModesForParticipants(ctx, ids)
}

func newTestOrchestrator(stub *directions.StubGateway, store prefs.Store) *Orchestrator {
	return NewOrchestrator(stub, prefs.NewResolver(store, nil), nil, nil)
}

func TestGenerateSchedulesAllParticipants(t *testing.T) {
	stub := directions.NewStubGateway()
	stub.DefaultLeg = drivingLeg(15, "5 km")

	store := &countingStore{InMemoryStore: prefs.NewInMemoryStore()}
	store.SetModes("bob", []models.TransportMode{models.ModeTransit})

	o := newTestOrchestrator(stub, store)
	participants := []models.Participant{
		{ID: "alice", Name: "Alice", Home: &homeA},
		{ID: "bob", Name: "Bob", Home: &homeB},
		{ID: "carol", Name: "Carol", Home: &homeC},
	}

	schedules, unavailable, err := o.GenerateSchedules(context.Background(), participants, testEvent(), nil)
	require.NoError(t, err)
	require.Len(t, schedules, 3)
	assert.Empty(t, unavailable)

	// output order matches input order even though computation fans out
	assert.Equal(t, "alice", schedules[0].ParticipantID)
	assert.Equal(t, "bob", schedules[1].ParticipantID)
	assert.Equal(t, "carol", schedules[2].ParticipantID)

	// primary resolved mode drives the computation
	assert.Equal(t, models.ModeDriving, schedules[0].Mode)
	assert.Equal(t, models.ModeTransit, schedules[1].Mode)

	// preferences are resolved in one batch call
	assert.Equal(t, int64(1), store.lookups.Load())
}

func TestGenerateSchedulesInlineModesWinOverStore(t *testing.T) {
	stub := directions.NewStubGateway()
	stub.DefaultLeg = drivingLeg(15, "5 km")

	store := prefs.NewInMemoryStore()
	store.SetModes("alice", []models.TransportMode{models.ModeTransit})

	o := newTestOrchestrator(stub, store)
	participants := []models.Participant{
		{ID: "alice", Name: "Alice", Home: &homeA,
			Modes: []models.TransportMode{models.ModeBicycling}},
	}

	schedules, _, err := o.GenerateSchedules(context.Background(), participants, testEvent(), nil)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, models.ModeBicycling, schedules[0].Mode)
}

func TestGenerateSchedulesPartialFailureIsolation(t *testing.T) {
	stub := directions.NewStubGateway()
	stub.DefaultLeg = drivingLeg(15, "5 km")

	o := newTestOrchestrator(stub, prefs.NewInMemoryStore())
	participants := []models.Participant{
		{ID: "alice", Name: "Alice", Home: &homeA},
		{ID: "bob", Name: "Bob"}, // no home, no override
		{ID: "carol", Name: "Carol", Home: &homeC},
	}

	schedules, unavailable, err := o.GenerateSchedules(context.Background(), participants, testEvent(), nil)
	require.NoError(t, err)

	require.Len(t, schedules, 2)
	assert.Equal(t, "alice", schedules[0].ParticipantID)
	assert.Equal(t, "carol", schedules[1].ParticipantID)

	require.Len(t, unavailable, 1)
	assert.Equal(t, "bob", unavailable[0].ParticipantID)
	assert.Equal(t, models.ReasonMissingLocation, unavailable[0].Reason)
}

func TestGenerateSchedulesNoRouteParticipant(t *testing.T) {
	stub := directions.NewStubGateway()
	stub.DefaultLeg = drivingLeg(15, "5 km")
	stub.FailRoute(homeB, venue, models.ModeDriving)

	o := newTestOrchestrator(stub, prefs.NewInMemoryStore())
	participants := []models.Participant{
		{ID: "alice", Name: "Alice", Home: &homeA},
		{ID: "bob", Name: "Bob", Home: &homeB},
	}

	schedules, unavailable, err := o.GenerateSchedules(context.Background(), participants, testEvent(), nil)
	require.NoError(t, err)

	require.Len(t, schedules, 1)
	assert.Equal(t, "alice", schedules[0].ParticipantID)

	require.Len(t, unavailable, 1)
	assert.Equal(t, "bob", unavailable[0].ParticipantID)
	assert.Equal(t, models.ReasonNoRoute, unavailable[0].Reason)
}

func TestGenerateSchedulesOverridesOutboundOrigin(t *testing.T) {
	stub := directions.NewStubGateway()
	stub.DefaultLeg = drivingLeg(15, "5 km")

	o := newTestOrchestrator(stub, prefs.NewInMemoryStore())
	participants := []models.Participant{
		{ID: "alice", Name: "Alice", Home: &homeA},
	}
	overrides := map[string]models.Coordinate{"alice": cafe}

	schedules, _, err := o.GenerateSchedules(context.Background(), participants, testEvent(), overrides)
	require.NoError(t, err)
	require.Len(t, schedules, 1)

	calls := stub.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, cafe, calls[0].Origin)
	assert.Equal(t, homeA, calls[1].Destination)
}

func TestGenerateSchedulesOverrideWithoutHome(t *testing.T) {
	stub := directions.NewStubGateway()
	stub.DefaultLeg = drivingLeg(15, "5 km")

	o := newTestOrchestrator(stub, prefs.NewInMemoryStore())
	participants := []models.Participant{
		{ID: "bob", Name: "Bob"},
	}
	overrides := map[string]models.Coordinate{"bob": cafe}

	schedules, unavailable, err := o.GenerateSchedules(context.Background(), participants, testEvent(), overrides)
	require.NoError(t, err)
	assert.Empty(t, schedules)
	require.Len(t, unavailable, 1)
	assert.Equal(t, models.ReasonMissingLocation, unavailable[0].Reason)
}

func TestGenerateSchedulesEmptyResultIsSuccess(t *testing.T) {
	o := newTestOrchestrator(directions.NewStubGateway(), prefs.NewInMemoryStore())

	participants := []models.Participant{
		{ID: "bob", Name: "Bob"},
	}

	schedules, unavailable, err := o.GenerateSchedules(context.Background(), participants, testEvent(), nil)
	require.NoError(t, err)
	assert.Empty(t, schedules)
	assert.Len(t, unavailable, 1)
}

func TestGenerateSchedulesInvalidWindow(t *testing.T) {
	o := newTestOrchestrator(directions.NewStubGateway(), prefs.NewInMemoryStore())

	event := testEvent()
	event.End = event.Start // not strictly after

	_, _, err := o.GenerateSchedules(context.Background(), nil, event, nil)
	assert.ErrorIs(t, err, models.ErrInvalidWindow)
}

func TestGenerateSchedulesManyParticipantsOrdered(t *testing.T) {
	stub := directions.NewStubGateway()
	stub.DefaultLeg = drivingLeg(12, "4 km")

	o := newTestOrchestrator(stub, prefs.NewInMemoryStore()).WithMaxInFlight(4)

	var participants []models.Participant
	for i := 0; i < 40; i++ {
		home := models.Coordinate{Lat: 43.4 + float64(i)/1000, Lng: -80.5}
		participants = append(participants, models.Participant{
			ID:   string(rune('a'+i%26)) + "-" + string(rune('0'+i/26)),
			Name: "P",
			Home: &home,
		})
	}

	schedules, unavailable, err := o.GenerateSchedules(context.Background(), participants, testEvent(), nil)
	require.NoError(t, err)
	assert.Empty(t, unavailable)
	require.Len(t, schedules, len(participants))
	for i, s := range schedules {
		assert.Equal(t, participants[i].ID, s.ParticipantID, "schedule %d out of order", i)
	}
}
