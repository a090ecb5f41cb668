package schedcache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"travel.snapevent.app/internal/clock"
	"travel.snapevent.app/internal/logging"
	"travel.snapevent.app/internal/metrics"
	"travel.snapevent.app/internal/models"
	"travel.snapevent.app/internal/scheduler"
)

// ErrNotFound is returned by an EntryStore when no entry exists for an
// event.
var ErrNotFound = errors.New("cache entry not found")

// Entry is the stored result of one batch computation.
type Entry struct {
	Fingerprint string                          `json:"fingerprint"`
	Schedules   []models.TravelSchedule         `json:"schedules"`
	Unavailable []models.UnavailableParticipant `json:"unavailable,omitempty"`
	ComputedAt  time.Time                       `json:"computedAt"`
}

// EntryStore is the key-value persistence boundary for cache entries.
// The contract is value-level; the storage format belongs to the
// backend.
type EntryStore interface {
	Get(ctx context.Context, eventID string) (*Entry, error)
	Put(ctx context.Context, eventID string, entry *Entry) error
	Delete(ctx context.Context, eventID string) error
}

// Request carries everything one schedule read needs.
type Request struct {
	Event        models.EventWindow
	Participants []models.Participant
	Overrides    map[string]models.Coordinate
	// Force bypasses and overwrites any cached entry.
	Force bool
}

// Result is a schedule set plus its provenance.
type Result struct {
	Schedules   []models.TravelSchedule
	Unavailable []models.UnavailableParticipant
	FromCache   bool
}

// Provider is the single contract both cache backends implement: the
// store-backed Cache and the always-fresh Direct fallback.
type Provider interface {
	Schedules(ctx context.Context, req Request) (Result, error)
	Invalidate(ctx context.Context, eventID string) error
}

// Cache is the store-backed Provider. Reads for the same event are
// serialized so a check-then-recompute cannot race another caller's
// fresher write.
type Cache struct {
	store        EntryStore
	orchestrator *scheduler.Orchestrator
	clock        clock.Clock
	logger       *slog.Logger
	metrics      *metrics.Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCache constructs a store-backed provider.
func NewCache(store EntryStore, orchestrator *scheduler.Orchestrator, c clock.Clock, logger *slog.Logger, m *metrics.Metrics) *Cache {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Cache{
		store:        store,
		orchestrator: orchestrator,
		clock:        c,
		logger:       logger,
		metrics:      m,
		locks:        make(map[string]*sync.Mutex),
	}
}

// lockFor returns the per-event mutex, creating it on first use.
// Locks are never reaped; the map is bounded by the number of distinct
// events this process serves.
func (c *Cache) lockFor(eventID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.locks[eventID]; ok {
		return l
	}
	l := &sync.Mutex{}
	c.locks[eventID] = l
	return l
}

// Schedules returns the event's schedule set, from the store when the
// stored fingerprint still matches the current inputs, recomputed
// otherwise. A store failure degrades to fresh computation without
// caching rather than failing the read.
func (c *Cache) Schedules(ctx context.Context, req Request) (Result, error) {
	lock := c.lockFor(req.Event.ID)
	lock.Lock()
	defer lock.Unlock()

	fingerprint := Fingerprint(req.Event, req.Participants, req.Overrides)

	storeUsable := true
	if !req.Force {
		entry, err := c.store.Get(ctx, req.Event.ID)
		switch {
		case err == nil && entry.Fingerprint == fingerprint:
			c.countRead("hit")
			return Result{Schedules: entry.Schedules, Unavailable: entry.Unavailable, FromCache: true}, nil
		case err == nil || errors.Is(err, ErrNotFound):
			// stale or absent; fall through to recompute
		default:
			storeUsable = false
			logging.LogError(c.logger, "schedule cache unreachable, computing fresh", err,
				slog.String("event_id", req.Event.ID))
		}
	}

	schedules, unavailable, err := c.orchestrator.GenerateSchedules(ctx, req.Participants, req.Event, req.Overrides)
	if err != nil {
		return Result{}, err
	}

	if storeUsable {
		entry := &Entry{
			Fingerprint: fingerprint,
			Schedules:   schedules,
			Unavailable: unavailable,
			ComputedAt:  c.clock.Now(),
		}
		if err := c.store.Put(ctx, req.Event.ID, entry); err != nil {
			logging.LogError(c.logger, "schedule cache write failed", err,
				slog.String("event_id", req.Event.ID))
		}
	}

	switch {
	case req.Force:
		c.countRead("forced")
	case !storeUsable:
		c.countRead("bypass")
	default:
		c.countRead("miss")
	}
	return Result{Schedules: schedules, Unavailable: unavailable, FromCache: false}, nil
}

// Invalidate drops the stored entry; the next read recomputes
// unconditionally.
func (c *Cache) Invalidate(ctx context.Context, eventID string) error {
	lock := c.lockFor(eventID)
	lock.Lock()
	defer lock.Unlock()
	err := c.store.Delete(ctx, eventID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func (c *Cache) countRead(result string) {
	if c.metrics != nil {
		c.metrics.CacheReadsTotal.WithLabelValues(result).Inc()
	}
}

// Direct is the no-store Provider used when no server-side cache is
// reachable, for example while creating an event that is not yet
// persisted. It always computes fresh and never reports FromCache.
type Direct struct {
	orchestrator *scheduler.Orchestrator
	metrics      *metrics.Metrics
}

// NewDirect constructs the always-fresh provider.
func NewDirect(orchestrator *scheduler.Orchestrator, m *metrics.Metrics) *Direct {
	return &Direct{orchestrator: orchestrator, metrics: m}
}

// Schedules computes a fresh schedule set.
func (d *Direct) Schedules(ctx context.Context, req Request) (Result, error) {
	schedules, unavailable, err := d.orchestrator.GenerateSchedules(ctx, req.Participants, req.Event, req.Overrides)
	if err != nil {
		return Result{}, err
	}
	if d.metrics != nil {
		d.metrics.CacheReadsTotal.WithLabelValues("bypass").Inc()
	}
	return Result{Schedules: schedules, Unavailable: unavailable, FromCache: false}, nil
}

// Invalidate is a no-op: there is nothing stored to drop.
func (d *Direct) Invalidate(context.Context, string) error {
	return nil
}
