// Package utils contains small request parsing and validation helpers
// shared by the REST handlers.
package utils

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

const maxIDLength = 128

var validIDRegex = regexp.MustCompile(`^[a-zA-Z0-9._:-]+$`)

// ExtractIDFromParams returns the {id} path segment with the .json
// suffix removed.
func ExtractIDFromParams(r *http.Request) string {
	return strings.TrimSuffix(r.PathValue("id"), ".json")
}

// ValidateID rejects empty, oversized, or malformed identifiers before
// they reach a store lookup.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("id exceeds %d characters", maxIDLength)
	}
	if !validIDRegex.MatchString(id) {
		return fmt.Errorf("id contains invalid characters")
	}
	return nil
}

// BoolParam reads a boolean query parameter, treating "true" and "1"
// as true and everything else (including absence) as false.
func BoolParam(r *http.Request, name string) bool {
	v := strings.ToLower(r.URL.Query().Get(name))
	return v == "true" || v == "1"
}
