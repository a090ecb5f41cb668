// Package webui serves the developer-facing debug pages. Everything
// here is disabled in production.
package webui

import (
	"net/http"

	"travel.snapevent.app/internal/app"
)

// WebUI wraps the Application with the debug HTTP handlers.
type WebUI struct {
	*app.Application
}

// NewWebUI builds the debug UI around an application instance.
func NewWebUI(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

// SetRoutes registers the debug endpoints on the mux.
func (webUI *WebUI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug", webUI.debugIndexHandler)
}
