package app

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"travel.snapevent.app/internal/appconf"
)

func TestIsInvalidAPIKey(t *testing.T) {
	app := &Application{Config: appconf.Config{ApiKeys: []string{"alpha", "beta"}}}

	tests := []struct {
		name    string
		key     string
		invalid bool
	}{
		{name: "known key", key: "alpha", invalid: false},
		{name: "other known key", key: "beta", invalid: false},
		{name: "unknown key", key: "gamma", invalid: true},
		{name: "empty key", key: "", invalid: true},
		{name: "prefix of known key", key: "alph", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.invalid, app.IsInvalidAPIKey(tt.key))
		})
	}
}

func TestRequestHasInvalidAPIKey(t *testing.T) {
	app := &Application{Config: appconf.Config{ApiKeys: []string{"alpha"}}}

	req := httptest.NewRequest("GET", "/api/travel/current-time.json?key=alpha", nil)
	assert.False(t, app.RequestHasInvalidAPIKey(req))

	req = httptest.NewRequest("GET", "/api/travel/current-time.json?key=wrong", nil)
	assert.True(t, app.RequestHasInvalidAPIKey(req))

	req = httptest.NewRequest("GET", "/api/travel/current-time.json", nil)
	assert.True(t, app.RequestHasInvalidAPIKey(req))
}
