// Package waypoints separates a generated itinerary from the coordinate list
// the model appends after an agreed marker token.
package waypoints

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// DefaultMarker terminates the narrative part of a planning response.
const DefaultMarker = "[[WAYPOINTS]]"

const number = `[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`

var pairPattern = regexp.MustCompile(`\[\s*(` + number + `)\s*,\s*(` + number + `)\s*\]`)

// Options controls extraction.
type Options struct {
	Marker   string
	Envelope Envelope
}

// Result is the outcome of extraction. An empty Waypoints slice is a valid,
// degraded result, not an error.
type Result struct {
	// Narrative is the trimmed text before the marker, or the whole text when
	// there is no marker. A rescan after an empty marker region keeps the
	// pre-marker narrative.
	Narrative string
	Citations []domain.Citation
	Waypoints []domain.Waypoint
	// MarkerFound reports whether the marker was present.
	MarkerFound bool
	// Rescanned reports that the whole text was scanned because the region
	// after the marker held no valid pair.
	Rescanned bool
	// Rejected counts syntactically matched pairs dropped by validation.
	Rejected int
}

// Extract splits text on the marker and returns the surviving coordinate
// pairs in left-to-right order. Citations are returned unchanged.
func Extract(text string, citations []domain.Citation, opts Options) Result {
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	res := Result{Citations: citations}

	idx := strings.Index(text, marker)
	if idx < 0 {
		res.Narrative = strings.TrimSpace(text)
		res.Waypoints, res.Rejected = Scan(text, opts.Envelope)
		return res
	}

	res.MarkerFound = true
	res.Narrative = strings.TrimSpace(text[:idx])
	res.Waypoints, res.Rejected = Scan(text[idx+len(marker):], opts.Envelope)
	if len(res.Waypoints) == 0 {
		res.Rescanned = true
		res.Waypoints, res.Rejected = Scan(text, opts.Envelope)
	}
	return res
}

// Scan returns every valid [lat, lon] pair of region in order, plus the number
// of matched pairs that failed validation. It never returns nil.
func Scan(region string, env Envelope) ([]domain.Waypoint, int) {
	out := make([]domain.Waypoint, 0)
	rejected := 0
	for _, m := range pairPattern.FindAllStringSubmatch(region, -1) {
		w, ok := parsePair(m[1], m[2])
		if !ok || !env.Admits(w) {
			rejected++
			continue
		}
		out = append(out, w)
	}
	return out, rejected
}

// Valid reports whether w is a finite WGS 84 coordinate.
func Valid(w domain.Waypoint) bool {
	if !finite(w.Lat) || !finite(w.Lon) {
		return false
	}
	return w.Lat >= -90 && w.Lat <= 90 && w.Lon >= -180 && w.Lon <= 180
}

// Filter applies the same validation as Scan to already decoded pairs,
// preserving order.
func Filter(pts []domain.Waypoint, env Envelope) ([]domain.Waypoint, int) {
	out := make([]domain.Waypoint, 0, len(pts))
	rejected := 0
	for _, w := range pts {
		if !Valid(w) || !env.Admits(w) {
			rejected++
			continue
		}
		out = append(out, w)
	}
	return out, rejected
}

func parsePair(latStr, lonStr string) (domain.Waypoint, bool) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.Waypoint{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.Waypoint{}, false
	}
	w := domain.Waypoint{Lat: lat, Lon: lon}
	return w, Valid(w)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
