package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"travel.snapevent.app/internal/models"
)

// PostgresStore is a Store backed by the shared application database.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetEvent loads an event, its participants and its stored
// starting-location overrides.
func (s *PostgresStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	var destName *string
	err := s.db.QueryRow(ctx,
		`SELECT id, destination_lat, destination_lng, destination_name, start_at, end_at
		 FROM events WHERE id = $1`,
		eventID,
	).Scan(&event.ID, &event.Destination.Lat, &event.Destination.Lng, &destName, &event.Start, &event.End)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if destName != nil {
		event.DestinationName = *destName
	}

	if err := s.loadParticipants(ctx, event); err != nil {
		return nil, err
	}
	if err := s.loadOverrides(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *PostgresStore) loadParticipants(ctx context.Context, event *models.Event) error {
	rows, err := s.db.Query(ctx,
		`SELECT p.id, p.name, p.avatar_url, p.home_lat, p.home_lng
		 FROM participants p
		 JOIN event_participants ep ON ep.participant_id = p.id
		 WHERE ep.event_id = $1
		 ORDER BY ep.joined_at`,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("list event participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p         models.Participant
			avatarURL *string
			lat, lng  *float64
		)
		if err := rows.Scan(&p.ID, &p.Name, &avatarURL, &lat, &lng); err != nil {
			return fmt.Errorf("scan participant: %w", err)
		}
		if avatarURL != nil {
			p.AvatarURL = *avatarURL
		}
		if lat != nil && lng != nil {
			p.Home = &models.Coordinate{Lat: *lat, Lng: *lng}
		}
		event.Participants = append(event.Participants, p)
	}
	return rows.Err()
}

func (s *PostgresStore) loadOverrides(ctx context.Context, event *models.Event) error {
	rows, err := s.db.Query(ctx,
		`SELECT participant_id, lat, lng
		 FROM starting_location_overrides
		 WHERE event_id = $1`,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("list starting location overrides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			participantID string
			c             models.Coordinate
		)
		if err := rows.Scan(&participantID, &c.Lat, &c.Lng); err != nil {
			return fmt.Errorf("scan override: %w", err)
		}
		if event.StartingLocations == nil {
			event.StartingLocations = make(map[string]models.Coordinate)
		}
		event.StartingLocations[participantID] = c
	}
	return rows.Err()
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
