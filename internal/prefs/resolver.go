package prefs

import (
	"context"
	"errors"
	"log/slog"

	"travel.snapevent.app/internal/logging"
	"travel.snapevent.app/internal/models"
)

var errLookupFailed = errors.New("preference lookup failed")

// Resolver turns participant ids into ordered transport mode lists.
// Every id always resolves: unset preferences and store failures both
// degrade to the single default mode rather than failing the request.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(store Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve batch-resolves preference lists for all ids. The first
// element of each list is the participant's primary mode; the rest are
// informational only.
func (r *Resolver) Resolve(ctx context.Context, participantIDs []string) map[string][]models.TransportMode {
	out := make(map[string][]models.TransportMode, len(participantIDs))

	var stored map[string][]models.TransportMode
	if r.store != nil {
		var err error
		stored, err = r.store.ModesForParticipants(ctx, participantIDs)
		if err != nil {
			// A whole-batch lookup failure degrades everyone to the
			// default mode; schedule generation must not fail here.
			logging.LogError(r.logger, "preference lookup failed, using default mode for all participants", err,
				slog.Int("participants", len(participantIDs)))
			stored = nil
		}
	}

	for _, id := range participantIDs {
		modes := stored[id]
		if len(modes) == 0 {
			modes = []models.TransportMode{models.DefaultTransportMode}
		}
		out[id] = modes
	}
	return out
}

// Primary returns the mode used for schedule generation from a
// resolved list.
func Primary(modes []models.TransportMode) models.TransportMode {
	if len(modes) == 0 {
		return models.DefaultTransportMode
	}
	return modes[0]
}
