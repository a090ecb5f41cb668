// Package schedcache owns caching of computed travel schedule sets.
// A schedule set is keyed by its event and a fingerprint of every
// input that affects it; fingerprint comparison is the sole staleness
// signal, there is no time-based expiry.
package schedcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"travel.snapevent.app/internal/models"
)

// Fingerprint produces a deterministic digest of all inputs that
// affect a schedule set: the participant id set, each participant's
// home coordinate, each active starting-location override, and the
// event's destination and window. Any change to any of these changes
// the digest.
func Fingerprint(event models.EventWindow, participants []models.Participant, overrides map[string]models.Coordinate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "dest=%.6f,%.6f;start=%d;end=%d;",
		event.Destination.Lat, event.Destination.Lng,
		event.Start.Unix(), event.End.Unix())

	lines := make([]string, 0, len(participants)+len(overrides))
	for _, p := range participants {
		if p.Home != nil {
			lines = append(lines, fmt.Sprintf("p=%s@%.6f,%.6f", p.ID, p.Home.Lat, p.Home.Lng))
		} else {
			lines = append(lines, fmt.Sprintf("p=%s@none", p.ID))
		}
	}
	for id, c := range overrides {
		lines = append(lines, fmt.Sprintf("o=%s@%.6f,%.6f", id, c.Lat, c.Lng))
	}
	// map iteration and caller-supplied participant order must not
	// affect the digest
	sort.Strings(lines)
	b.WriteString(strings.Join(lines, ";"))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
