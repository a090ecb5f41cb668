package webui

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"travel.snapevent.app/internal/appconf"
)

//go:embed debug_index.html
var templateFS embed.FS

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		// Log the actual error server-side
		slog.Error("failed to parse debug template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	err = tmpl.Execute(w, dataStruct)
	if err != nil {
		slog.Error("failed to execute debug template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.Config.Env == appconf.Production {
		http.NotFound(w, r)
		return
	}
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "config":
		data = redactConfig(webUI.Config)
		title = "Runtime Configuration"
	case "event":
		eventID := r.URL.Query().Get("id")
		event, err := webUI.Events.GetEvent(r.Context(), eventID)
		if err != nil {
			data = map[string]string{"error": err.Error()}
			title = "Event Lookup Failed"
			break
		}
		data = event
		title = "Event Record - " + eventID
	case "preferences":
		eventID := r.URL.Query().Get("id")
		modes, err := participantModes(r, webUI, eventID)
		if err != nil {
			data = map[string]string{"error": err.Error()}
			title = "Preference Lookup Failed"
			break
		}
		data = modes
		title = "Transport Preferences - " + eventID
	default:
		data = map[string]string{
			"error": "Please use one of the following: config, event, preferences. event and preferences take an id query parameter.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}

// redactConfig blanks secrets before they hit a browser.
func redactConfig(cfg appconf.Config) appconf.Config {
	cfg.ApiKeys = nil
	cfg.GoogleAPIKey = ""
	cfg.DatabaseURL = ""
	return cfg
}

func participantModes(r *http.Request, webUI *WebUI, eventID string) (interface{}, error) {
	event, err := webUI.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(event.Participants))
	for _, p := range event.Participants {
		ids = append(ids, p.ID)
	}
	return webUI.Prefs.Resolve(r.Context(), ids), nil
}
