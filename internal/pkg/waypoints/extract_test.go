package waypoints

import (
	"testing"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

func TestExtract_MarkerPresent(t *testing.T) {
	text := "Day one: Praha to Křivoklát, great curves.\n\n" + DefaultMarker + " [49.75,14.33],[49.80,14.40]"

	res := Extract(text, nil, Options{Envelope: EuropeEnvelope})

	if !res.MarkerFound {
		t.Fatal("expected marker to be found")
	}
	if res.Narrative != "Day one: Praha to Křivoklát, great curves." {
		t.Errorf("unexpected narrative %q", res.Narrative)
	}
	want := []domain.Waypoint{{Lat: 49.75, Lon: 14.33}, {Lat: 49.80, Lon: 14.40}}
	if len(res.Waypoints) != len(want) {
		t.Fatalf("expected %d waypoints, got %d", len(want), len(res.Waypoints))
	}
	for i := range want {
		if res.Waypoints[i] != want[i] {
			t.Errorf("waypoint %d: expected %v, got %v", i, want[i], res.Waypoints[i])
		}
	}
}

func TestExtract_MarkerAbsent(t *testing.T) {
	text := "Ride north and stop at [50.1,14.2] for coffee."

	res := Extract(text, nil, Options{Envelope: EuropeEnvelope})

	if res.MarkerFound {
		t.Fatal("marker should not be found")
	}
	if res.Narrative != text {
		t.Errorf("expected narrative to equal full text, got %q", res.Narrative)
	}
	if len(res.Waypoints) != 1 || res.Waypoints[0] != (domain.Waypoint{Lat: 50.1, Lon: 14.2}) {
		t.Errorf("expected one waypoint [50.1,14.2], got %v", res.Waypoints)
	}
}

func TestExtract_RejectsInvalidPairs(t *testing.T) {
	tests := []struct {
		name     string
		region   string
		want     []domain.Waypoint
		rejected int
	}{
		{
			name:     "overflow parses to infinity",
			region:   "[49.1, 14.1], [1e400, 14.0], [49.2, 14.2]",
			want:     []domain.Waypoint{{Lat: 49.1, Lon: 14.1}, {Lat: 49.2, Lon: 14.2}},
			rejected: 1,
		},
		{
			name:     "outside envelope",
			region:   "[49.1, 14.1] [-33.86, 151.2] [49.2, 14.2]",
			want:     []domain.Waypoint{{Lat: 49.1, Lon: 14.1}, {Lat: 49.2, Lon: 14.2}},
			rejected: 1,
		},
		{
			name:     "outside WGS 84",
			region:   "[95.0, 14.1], [49.2, 14.2]",
			want:     []domain.Waypoint{{Lat: 49.2, Lon: 14.2}},
			rejected: 1,
		},
		{
			name:   "not a number is never matched",
			region: "[NaN, 14.1], [49.2, 14.2]",
			want:   []domain.Waypoint{{Lat: 49.2, Lon: 14.2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rejected := Scan(tt.region, EuropeEnvelope)
			if rejected != tt.rejected {
				t.Errorf("expected %d rejected, got %d", tt.rejected, rejected)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("waypoint %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestExtract_DisabledEnvelopeKeepsFarPoints(t *testing.T) {
	got, rejected := Scan("[-33.86, 151.2]", Envelope{})
	if rejected != 0 || len(got) != 1 {
		t.Fatalf("expected far point to survive a disabled envelope, got %v (rejected %d)", got, rejected)
	}
}

func TestExtract_EmptyResultIsNotFatal(t *testing.T) {
	text := "  Sorry, I could not find a good route today.  "

	res := Extract(text, []domain.Citation{{Title: "Mapy", URI: "https://mapy.cz"}}, Options{})

	if res.Waypoints == nil || len(res.Waypoints) != 0 {
		t.Fatalf("expected empty non-nil waypoints, got %v", res.Waypoints)
	}
	if res.Narrative != "Sorry, I could not find a good route today." {
		t.Errorf("unexpected narrative %q", res.Narrative)
	}
	if len(res.Citations) != 1 || res.Citations[0].URI != "https://mapy.cz" {
		t.Errorf("citations must pass through unchanged, got %v", res.Citations)
	}
}

func TestExtract_MarkerWithoutPairsRescansWholeText(t *testing.T) {
	text := "Stop at Beroun [49.96, 14.07] and Zbiroh [49.86, 13.77].\n" + DefaultMarker + " (none)"

	res := Extract(text, nil, Options{Envelope: EuropeEnvelope})

	if !res.Rescanned {
		t.Error("expected a whole-text rescan")
	}
	if len(res.Waypoints) != 2 {
		t.Fatalf("expected 2 waypoints from rescan, got %v", res.Waypoints)
	}
	if res.Narrative != "Stop at Beroun [49.96, 14.07] and Zbiroh [49.86, 13.77]." {
		t.Errorf("unexpected narrative %q", res.Narrative)
	}
}

func TestExtract_PreservesOrderAndDuplicates(t *testing.T) {
	region := DefaultMarker + "[50.0,14.0],[49.0,13.0],[49.0,13.0],[ +51.5 , -0.12 ],[48.5,16.0]"

	res := Extract(region, nil, Options{Envelope: EuropeEnvelope})

	want := []domain.Waypoint{
		{Lat: 50.0, Lon: 14.0},
		{Lat: 49.0, Lon: 13.0},
		{Lat: 49.0, Lon: 13.0},
		{Lat: 51.5, Lon: -0.12},
		{Lat: 48.5, Lon: 16.0},
	}
	if len(res.Waypoints) != len(want) {
		t.Fatalf("expected %d waypoints, got %v", len(want), res.Waypoints)
	}
	for i := range want {
		if res.Waypoints[i] != want[i] {
			t.Errorf("position %d: expected %v, got %v", i, want[i], res.Waypoints[i])
		}
	}
}

func TestExtract_CustomMarker(t *testing.T) {
	res := Extract("Itinerary\nCOORDS: [49.5, 15.5]", nil, Options{Marker: "COORDS:", Envelope: EuropeEnvelope})
	if !res.MarkerFound || res.Narrative != "Itinerary" || len(res.Waypoints) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestFilter(t *testing.T) {
	in := []domain.Waypoint{{Lat: 49, Lon: 14}, {Lat: 10, Lon: 100}, {Lat: 50, Lon: 15}}
	got, rejected := Filter(in, EuropeEnvelope)
	if rejected != 1 || len(got) != 2 || got[1] != in[2] {
		t.Errorf("unexpected filter result %v (rejected %d)", got, rejected)
	}
}

func TestEnvelope_Validate(t *testing.T) {
	if err := EuropeEnvelope.Validate(); err != nil {
		t.Errorf("default envelope should be valid: %v", err)
	}
	bad := Envelope{Enabled: true, Bounds: domain.Bounds{MinLat: 75, MaxLat: 30, MinLon: -12, MaxLon: 45}}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for inverted envelope")
	}
	if err := (Envelope{Bounds: bad.Bounds}).Validate(); err != nil {
		t.Error("disabled envelope should not be validated")
	}
}
