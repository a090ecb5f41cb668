package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"travel.snapevent.app/internal/app"
	"travel.snapevent.app/internal/appconf"
	"travel.snapevent.app/internal/clock"
	"travel.snapevent.app/internal/directions"
	"travel.snapevent.app/internal/events"
	"travel.snapevent.app/internal/logging"
	"travel.snapevent.app/internal/metrics"
	"travel.snapevent.app/internal/prefs"
	"travel.snapevent.app/internal/restapi"
	"travel.snapevent.app/internal/schedcache"
	"travel.snapevent.app/internal/scheduler"
	"travel.snapevent.app/internal/webui"
)

const poolStatsInterval = 15 * time.Second

// ParseAPIKeys splits a comma separated list of API keys into a slice.
func ParseAPIKeys(apiKeys string) []string {
	keys := strings.Split(apiKeys, ",")
	for i, key := range keys {
		keys[i] = strings.TrimSpace(key)
	}
	if len(keys) == 1 && keys[0] == "" {
		return []string{}
	}
	return keys
}

// BuildApplication wires the routing gateway, stores and schedule
// provider from the configuration. With no database URL everything
// runs on in-memory stores; with no Google API key routing is served
// by the canned stub gateway. Both fallbacks exist for local
// development.
func BuildApplication(cfg appconf.Config) (*app.Application, error) {
	logger := logging.NewLogger(cfg.Verbose)
	appMetrics := metrics.NewWithLogger(logger)
	realClock := clock.RealClock{}

	gateway, err := buildGateway(cfg, logger, appMetrics)
	if err != nil {
		return nil, err
	}

	var (
		pool       *pgxpool.Pool
		eventStore events.Store
		prefStore  prefs.Store
		entryStore schedcache.EntryStore
	)

	if cfg.DatabaseURL != "" {
		pool, err = pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		eventStore = events.NewPostgresStore(pool)
		prefStore = prefs.NewPostgresStore(pool)
		entryStore = schedcache.NewPostgresStore(pool)
		appMetrics.StartPoolStatsCollector(pool, poolStatsInterval)
	} else {
		logger.Warn("no database URL configured, using in-memory stores")
		eventStore = events.NewInMemoryStore()
		prefStore = prefs.NewInMemoryStore()
		entryStore = schedcache.NewMemoryStore()
	}

	resolver := prefs.NewResolver(prefStore, logger)
	orchestrator := scheduler.NewOrchestrator(gateway, resolver, logger, appMetrics)

	var provider schedcache.Provider
	if cfg.DisableCache {
		logger.Warn("schedule cache disabled, every read recomputes")
		provider = schedcache.NewDirect(orchestrator, appMetrics)
	} else {
		provider = schedcache.NewCache(entryStore, orchestrator, realClock, logger, appMetrics)
	}

	return &app.Application{
		Config:     cfg,
		Logger:     logger,
		Clock:      realClock,
		Metrics:    appMetrics,
		Directions: gateway,
		Events:     eventStore,
		Prefs:      resolver,
		Schedules:  provider,
		DB:         pool,
	}, nil
}

func buildGateway(cfg appconf.Config, logger *slog.Logger, appMetrics *metrics.Metrics) (directions.Gateway, error) {
	if cfg.GoogleAPIKey == "" {
		logger.Warn("no Google API key configured, using stub routing gateway")
		return directions.NewStubGateway(), nil
	}
	gateway, err := directions.NewGoogleGateway(cfg.GoogleAPIKey, logger, appMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize routing gateway: %w", err)
	}
	return gateway, nil
}

// CreateServer builds the HTTP server with all routes and middleware
// wired. The returned API owns background goroutines; call its
// Shutdown when the server stops.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(coreApp)

	mux := http.NewServeMux()
	api.SetRoutes(mux)

	debugUI := webui.NewWebUI(coreApp)
	debugUI.SetRoutes(mux)

	handler := restapi.RequestIDMiddleware(
		restapi.NewRequestLoggingMiddleware(coreApp.Logger)(
			restapi.MetricsHandler(coreApp.Metrics)(mux)))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return srv, api
}
