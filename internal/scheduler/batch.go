package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"travel.snapevent.app/internal/directions"
	"travel.snapevent.app/internal/logging"
	"travel.snapevent.app/internal/metrics"
	"travel.snapevent.app/internal/models"
	"travel.snapevent.app/internal/prefs"
)

// defaultMaxInFlight bounds concurrent provider calls per batch.
const defaultMaxInFlight = 8

// Orchestrator runs the itinerary calculator across all participants
// of an event. Individual participants fail independently; the batch
// itself only fails on a malformed event window.
type Orchestrator struct {
	calc        *Calculator
	resolver    *prefs.Resolver
	logger      *slog.Logger
	metrics     *metrics.Metrics
	maxInFlight int
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(gateway directions.Gateway, resolver *prefs.Resolver, logger *slog.Logger, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		calc:        NewCalculator(gateway),
		resolver:    resolver,
		logger:      logger,
		metrics:     m,
		maxInFlight: defaultMaxInFlight,
	}
}

// WithMaxInFlight overrides the provider fan-out bound.
func (o *Orchestrator) WithMaxInFlight(n int) *Orchestrator {
	if n > 0 {
		o.maxInFlight = n
	}
	return o
}

// GenerateSchedules computes schedules for every participant of the
// event. The returned schedule list preserves participant input order
// with failures omitted; omitted participants are itemized separately
// so callers can tell "location data needed" from "unable to calculate
// route".
func (o *Orchestrator) GenerateSchedules(ctx context.Context, participants []models.Participant, event models.EventWindow, overrides map[string]models.Coordinate) ([]models.TravelSchedule, []models.UnavailableParticipant, error) {
	if err := event.ValidateWindow(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	defer func() {
		if o.metrics != nil {
			o.metrics.BatchDuration.Observe(time.Since(start).Seconds())
		}
	}()

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	resolved := o.resolver.Resolve(ctx, ids)

	// Per-participant computations are independent pure lookups, so
	// they fan out concurrently. Results land in input-indexed slots
	// and are compacted afterwards, which keeps output order
	// deterministic regardless of completion order.
	schedules := make([]*models.TravelSchedule, len(participants))
	failures := make([]error, len(participants))

	var wg sync.WaitGroup
	sem := make(chan struct{}, o.maxInFlight)

	for i, participant := range participants {
		override := overrideFor(participant.ID, overrides)
		if override == nil && participant.Home == nil {
			// Nothing to route from; skip without a provider call.
			failures[i] = ErrMissingOrigin
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, participant models.Participant, override *models.Coordinate) {
			defer wg.Done()
			defer func() { <-sem }()

			// A mode list supplied inline with the participant wins
			// over the stored preference.
			modes := participant.Modes
			if len(modes) == 0 {
				modes = resolved[participant.ID]
			}
			mode := prefs.Primary(modes)
			schedule, err := o.calc.ComputeSchedule(ctx, participant, event, override, mode)
			if err != nil {
				failures[i] = err
				o.logSkip(participant, err)
				return
			}
			schedules[i] = schedule
		}(i, participant, override)
	}
	wg.Wait()

	out := make([]models.TravelSchedule, 0, len(participants))
	var unavailable []models.UnavailableParticipant
	for i, schedule := range schedules {
		if schedule != nil {
			out = append(out, *schedule)
			continue
		}
		unavailable = append(unavailable, models.UnavailableParticipant{
			ParticipantID:   participants[i].ID,
			ParticipantName: participants[i].Name,
			Reason:          reasonFor(failures[i]),
		})
	}
	return out, unavailable, nil
}

func overrideFor(participantID string, overrides map[string]models.Coordinate) *models.Coordinate {
	if overrides == nil {
		return nil
	}
	if c, ok := overrides[participantID]; ok {
		return &c
	}
	return nil
}

func reasonFor(err error) models.UnavailableReason {
	if errors.Is(err, ErrMissingOrigin) || errors.Is(err, ErrMissingHome) {
		return models.ReasonMissingLocation
	}
	return models.ReasonNoRoute
}

func (o *Orchestrator) logSkip(participant models.Participant, err error) {
	if o.logger == nil {
		return
	}
	if errors.Is(err, directions.ErrNoRoute) {
		o.logger.Debug("no route for participant",
			slog.String("participant_id", participant.ID))
		return
	}
	logging.LogError(o.logger, "participant schedule skipped", err,
		slog.String("participant_id", participant.ID))
}
