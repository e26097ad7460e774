package timezone

import "testing"

func TestGetTimezone(t *testing.T) {
	f, err := NewFinder()
	if err != nil {
		t.Fatalf("NewFinder: %v", err)
	}

	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"Prague", 50.0755, 14.4378, "Europe/Prague"},
		{"Vienna", 48.2082, 16.3738, "Europe/Vienna"},
		{"Lisbon", 38.7223, -9.1393, "Europe/Lisbon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.GetTimezone(tt.lat, tt.lon)
			if err != nil {
				t.Fatalf("GetTimezone: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	again, _ := NewFinder()
	if again != f {
		t.Error("expected the shared finder instance")
	}
}
