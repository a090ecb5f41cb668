package app

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"travel.snapevent.app/internal/appconf"
	"travel.snapevent.app/internal/clock"
	"travel.snapevent.app/internal/directions"
	"travel.snapevent.app/internal/events"
	"travel.snapevent.app/internal/metrics"
	"travel.snapevent.app/internal/prefs"
	"travel.snapevent.app/internal/schedcache"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware: configuration, the logger, the routing gateway, the
// stores, and the schedule provider the handlers call into.
type Application struct {
	Config     appconf.Config
	Logger     *slog.Logger
	Clock      clock.Clock
	Metrics    *metrics.Metrics
	Directions directions.Gateway
	Events     events.Store
	Prefs      *prefs.Resolver
	Schedules  schedcache.Provider
	DB         *pgxpool.Pool
}
