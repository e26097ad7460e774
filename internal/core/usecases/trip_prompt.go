package usecases

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/pkg/waypoints"
)

// Trip response modes.
const (
	TripModeText = "text"
	TripModeJSON = "json"
)

// PromptOptions shape the planning request.
type PromptOptions struct {
	Marker       string
	MinWaypoints int
	Language     string // BCP 47 tag, e.g. "cs"
	Mode         string
	Location     *domain.Waypoint
	// Region, when set, is the box the coordinates should stay inside.
	Region *domain.Bounds
}

// LanguageName returns the English name of a BCP 47 tag ("cs" -> "Czech").
// Unknown tags fall back to English.
func LanguageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return "English"
	}
	if name := display.English.Languages().Name(t); name != "" {
		return name
	}
	return "English"
}

// BuildTripPrompt builds the single planning request for origin and
// preferences. It performs no validation of its inputs.
func BuildTripPrompt(origin, preferences string, opts PromptOptions) string {
	marker := opts.Marker
	if marker == "" {
		marker = waypoints.DefaultMarker
	}
	minPts := opts.MinWaypoints
	if minPts <= 0 {
		minPts = 30
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an experienced motorcycle tour guide. Plan a motorcycle trip starting in %s.\n", origin)
	fmt.Fprintf(&b, "Rider preferences: %s.\n", preferences)
	fmt.Fprintf(&b, "Write the itinerary in %s for a rider: stages, twisty roads, viewpoints, fuel and coffee stops.\n", LanguageName(opts.Language))
	b.WriteString("Use search and maps to find real places that exist today.\n")

	if opts.Mode == TripModeJSON {
		fmt.Fprintf(&b, "Return JSON with the itinerary text, the destination name and at least %d waypoints along the roads of the route, in riding order.\n", minPts)
	} else {
		b.WriteString("Finish the itinerary with a line \"DESTINATION: <place>\" naming the final stop.\n")
		fmt.Fprintf(&b, "After the itinerary write the token %s on its own line, followed by a comma-separated list of at least %d [lat, lon] pairs ", marker, minPts)
		b.WriteString("in decimal degrees that trace the roads of the route in riding order, for example [50.0755, 14.4378], [49.9481, 14.6271].\n")
		b.WriteString("Write nothing after the list.\n")
	}

	b.WriteString("All coordinates must be consistent with the region of the starting point")
	if opts.Region != nil {
		fmt.Fprintf(&b, " and stay within latitude %.1f..%.1f and longitude %.1f..%.1f",
			opts.Region.MinLat, opts.Region.MaxLat, opts.Region.MinLon, opts.Region.MaxLon)
	}
	b.WriteString(".\n")

	if opts.Location != nil {
		fmt.Fprintf(&b, "The rider is currently at %.5f, %.5f.\n", opts.Location.Lat, opts.Location.Lon)
	}
	return b.String()
}

// TripSchema is the response schema used in JSON mode.
func TripSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"itinerary":   map[string]any{"type": "string"},
			"destination": map[string]any{"type": "string"},
			"waypoints": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"lat": map[string]any{"type": "number"},
						"lon": map[string]any{"type": "number"},
					},
					"required": []string{"lat", "lon"},
				},
			},
		},
		"required": []string{"itinerary", "waypoints"},
	}
}

type tripJSON struct {
	Itinerary   string            `json:"itinerary"`
	Destination string            `json:"destination"`
	Waypoints   []domain.Waypoint `json:"waypoints"`
}

// decodeTripJSON parses a JSON-mode response, tolerating a Markdown code fence.
func decodeTripJSON(text string) (*tripJSON, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	var out tripJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &out); err != nil {
		return nil, false
	}
	return &out, true
}

const destinationPrefix = "DESTINATION:"

// destinationOf finds the destination label in a narrative: the last
// "DESTINATION:" line, else the last Markdown heading.
func destinationOf(narrative string) string {
	lines := strings.Split(narrative, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		l = strings.Trim(l, "*_ ")
		if len(l) >= len(destinationPrefix) && strings.EqualFold(l[:len(destinationPrefix)], destinationPrefix) {
			return strings.Trim(strings.TrimSpace(l[len(destinationPrefix):]), "*_ ")
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		if strings.HasPrefix(l, "#") {
			return strings.TrimSpace(strings.TrimLeft(l, "#"))
		}
	}
	return ""
}
