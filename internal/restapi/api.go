// Package restapi exposes the travel-schedule API over HTTP: schedule
// reads and forced regeneration per event, plus the supporting time,
// health and metrics endpoints.
package restapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"travel.snapevent.app/internal/app"
)

// RestAPI wraps the Application with HTTP handlers.
type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI constructs the API and its per-key rate limiter.
func NewRestAPI(application *app.Application) *RestAPI {
	api := &RestAPI{Application: application}
	api.rateLimiter = NewRateLimitMiddleware(
		application.Config.RateLimit,
		time.Second,
		nil,
		api.Clock,
	)
	return api
}

// Shutdown stops background goroutines owned by the API.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}

// SetRoutes registers all endpoints on the mux.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	limit := api.rateLimiter.Handler()

	// Schedule reads must never be served from HTTP caches; the
	// schedule cache is the only authority on freshness.
	mux.Handle("GET /api/travel/schedules-for-event/{id}",
		CacheControlMiddleware(0, limit(api.requireAPIKey(api.schedulesForEventHandler))))
	mux.Handle("POST /api/travel/schedules-for-event/{id}/regenerate.json",
		CacheControlMiddleware(0, limit(api.requireAPIKey(api.regenerateSchedulesHandler))))

	mux.Handle("GET /api/travel/current-time.json",
		CacheControlMiddleware(30, limit(api.requireAPIKey(api.currentTimeHandler))))

	mux.HandleFunc("GET /healthz", api.healthHandler)

	if api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// requireAPIKey rejects requests without a valid key before the
// handler runs.
func (api *RestAPI) requireAPIKey(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.sendUnauthorized(w, r)
			return
		}
		next(w, r)
	})
}
