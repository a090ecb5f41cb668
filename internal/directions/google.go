package directions

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"googlemaps.github.io/maps"
	"travel.snapevent.app/internal/logging"
	"travel.snapevent.app/internal/metrics"
	"travel.snapevent.app/internal/models"
)

// fallbackInstruction is used when a step carries no instruction text.
const fallbackInstruction = "Continue on route"

// scheduledTimeLayout formats transit stop times for display.
const scheduledTimeLayout = "3:04 PM"

// GoogleGateway implements Gateway on top of the Google Maps
// Directions API.
type GoogleGateway struct {
	client  *maps.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewGoogleGateway builds a gateway from an API key.
func NewGoogleGateway(apiKey string, logger *slog.Logger, m *metrics.Metrics) (*GoogleGateway, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &GoogleGateway{client: client, logger: logger, metrics: m}, nil
}

// Directions resolves one leg via the provider. All provider-side
// failures come back as ErrNoRoute; only a malformed Timing is
// reported as a distinct caller error.
func (g *GoogleGateway) Directions(ctx context.Context, req Request) (*models.TravelLeg, error) {
	if err := req.Timing.Validate(); err != nil {
		return nil, err
	}

	dr := &maps.DirectionsRequest{
		Origin:      formatCoordinate(req.Origin),
		Destination: formatCoordinate(req.Destination),
		Mode:        travelMode(req.Mode),
		Units:       maps.UnitsMetric,
	}
	if req.Timing.ArriveBy != nil {
		dr.ArrivalTime = strconv.FormatInt(req.Timing.ArriveBy.Unix(), 10)
	} else {
		dr.DepartureTime = strconv.FormatInt(req.Timing.DepartAt.Unix(), 10)
	}

	start := time.Now()
	routes, _, err := g.client.Directions(ctx, dr)
	g.observe(req.Mode, start, err == nil && len(routes) > 0)

	if err != nil {
		logging.LogError(g.logger, "directions call failed", err,
			slog.String("mode", string(req.Mode)))
		return nil, fmt.Errorf("%w: %v", ErrNoRoute, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	leg, ok := mapLeg(routes[0].Legs[0])
	if !ok {
		return nil, ErrNoRoute
	}
	return leg, nil
}

func (g *GoogleGateway) observe(mode models.TransportMode, start time.Time, ok bool) {
	if g.metrics == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "no_route"
	}
	g.metrics.DirectionsRequestsTotal.WithLabelValues(string(mode), status).Inc()
	g.metrics.DirectionsDuration.Observe(time.Since(start).Seconds())
}

func formatCoordinate(c models.Coordinate) string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}

func travelMode(mode models.TransportMode) maps.Mode {
	switch mode {
	case models.ModeWalking:
		return maps.TravelModeWalking
	case models.ModeTransit:
		return maps.TravelModeTransit
	case models.ModeBicycling:
		return maps.TravelModeBicycling
	default:
		return maps.TravelModeDriving
	}
}

// mapLeg converts the first provider leg into a TravelLeg. A leg
// without duration, distance or steps is unusable.
func mapLeg(leg *maps.Leg) (*models.TravelLeg, bool) {
	if leg == nil || leg.Duration <= 0 || leg.Distance.HumanReadable == "" || len(leg.Steps) == 0 {
		return nil, false
	}

	out := &models.TravelLeg{
		DurationMinutes: wholeMinutes(leg.Duration),
		Distance:        leg.Distance.HumanReadable,
		Steps:           make([]models.TravelStep, 0, len(leg.Steps)),
	}

	// Explicit leg timing (common for transit) takes precedence over
	// anything the caller would derive from the anchor.
	if !leg.DepartureTime.IsZero() && !leg.ArrivalTime.IsZero() {
		out.DepartureTime = leg.DepartureTime
		out.ArrivalTime = leg.ArrivalTime
	}

	for _, step := range leg.Steps {
		out.Steps = append(out.Steps, mapStep(step))
	}
	return out, true
}

func mapStep(step *maps.Step) models.TravelStep {
	instruction := StripHTML(step.HTMLInstructions)
	if instruction == "" {
		instruction = fallbackInstruction
	}

	s := models.TravelStep{
		Instruction:     instruction,
		DurationMinutes: wholeMinutes(step.Duration),
		Distance:        step.Distance.HumanReadable,
		Mode:            stepMode(step.TravelMode),
	}

	if step.TransitDetails != nil {
		td := step.TransitDetails
		s.Transit = &models.TransitDetail{
			DepartureStop: models.TransitStopInfo{
				Name:          td.DepartureStop.Name,
				Location:      models.Coordinate{Lat: td.DepartureStop.Location.Lat, Lng: td.DepartureStop.Location.Lng},
				ScheduledTime: scheduledTimeText(td.DepartureTime),
			},
			ArrivalStop: models.TransitStopInfo{
				Name:          td.ArrivalStop.Name,
				Location:      models.Coordinate{Lat: td.ArrivalStop.Location.Lat, Lng: td.ArrivalStop.Location.Lng},
				ScheduledTime: scheduledTimeText(td.ArrivalTime),
			},
			LineName:      td.Line.Name,
			LineShortName: td.Line.ShortName,
			VehicleType:   td.Line.Vehicle.Type,
			Headsign:      td.Headsign,
			NumStops:      int(td.NumStops),
		}
	}
	return s
}

func stepMode(travelMode string) models.TransportMode {
	mode := models.TransportMode(strings.ToLower(travelMode))
	if mode.IsValid() {
		return mode
	}
	return models.ModeWalking
}

func scheduledTimeText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(scheduledTimeLayout)
}

// wholeMinutes rounds a duration up to whole minutes, so a 61 second
// segment displays as 2 minutes rather than 1.
func wholeMinutes(d time.Duration) int {
	return int((d + time.Minute - 1) / time.Minute)
}

// StripHTML reduces provider instruction markup to plain text and
// decodes HTML entities.
func StripHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(b.String()))
}
