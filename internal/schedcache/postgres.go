package schedcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is an EntryStore that keeps one row per event in the
// shared application database. The schedule payload is stored as a
// jsonb document; the fingerprint is a separate column so staleness
// checks never parse the payload.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get loads the stored entry for an event.
func (s *PostgresStore) Get(ctx context.Context, eventID string) (*Entry, error) {
	var (
		fingerprint string
		payload     []byte
		computedAt  time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT fingerprint, payload, computed_at
		 FROM schedule_cache WHERE event_id = $1`,
		eventID,
	).Scan(&fingerprint, &payload, &computedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cache entry: %w", err)
	}

	entry := &Entry{}
	if err := json.Unmarshal(payload, entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	entry.Fingerprint = fingerprint
	entry.ComputedAt = computedAt
	return entry, nil
}

// Put upserts the entry for an event.
func (s *PostgresStore) Put(ctx context.Context, eventID string, entry *Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO schedule_cache (event_id, fingerprint, payload, computed_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (event_id) DO UPDATE
		 SET fingerprint = EXCLUDED.fingerprint,
		     payload = EXCLUDED.payload,
		     computed_at = EXCLUDED.computed_at`,
		eventID, entry.Fingerprint, payload, entry.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for an event.
func (s *PostgresStore) Delete(ctx context.Context, eventID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM schedule_cache WHERE event_id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}
