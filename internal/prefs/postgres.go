package prefs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"travel.snapevent.app/internal/models"
)

// PostgresStore is a Store backed by the shared application database.
// Preference lists are stored one row per (participant, rank).
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// ModesForParticipants fetches all preference rows for the given ids in
// one query, ordered by preference rank.
func (s *PostgresStore) ModesForParticipants(ctx context.Context, participantIDs []string) (map[string][]models.TransportMode, error) {
	if len(participantIDs) == 0 {
		return map[string][]models.TransportMode{}, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT participant_id, mode
		 FROM transport_preferences
		 WHERE participant_id = ANY($1)
		 ORDER BY participant_id, rank`,
		participantIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query transport preferences: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.TransportMode)
	for rows.Next() {
		var participantID, mode string
		if err := rows.Scan(&participantID, &mode); err != nil {
			return nil, fmt.Errorf("scan transport preference: %w", err)
		}
		m := models.TransportMode(mode)
		if !m.IsValid() {
			// Skip rows written by older clients with modes we no
			// longer support.
			continue
		}
		out[participantID] = append(out[participantID], m)
	}
	return out, rows.Err()
}
