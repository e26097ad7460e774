package waypoints

import (
	"fmt"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// Envelope is a coarse plausibility box. It guards against hallucinated
// far-away coordinates; it is not a correctness guarantee.
type Envelope struct {
	Enabled bool
	Bounds  domain.Bounds
}

// EuropeEnvelope is the default envelope for a Europe-centred deployment.
var EuropeEnvelope = Envelope{
	Enabled: true,
	Bounds:  domain.Bounds{MinLat: 30, MaxLat: 75, MinLon: -12, MaxLon: 45},
}

// Validate checks that an enabled envelope is a proper WGS 84 box.
func (e Envelope) Validate() error {
	if !e.Enabled {
		return nil
	}
	b := e.Bounds
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		return fmt.Errorf("envelope min must be below max (lat %v..%v, lon %v..%v)", b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	}
	if b.MinLat < -90 || b.MaxLat > 90 || b.MinLon < -180 || b.MaxLon > 180 {
		return fmt.Errorf("envelope must lie inside WGS 84")
	}
	return nil
}

// Admits reports whether w passes the envelope. A disabled envelope admits everything.
func (e Envelope) Admits(w domain.Waypoint) bool {
	return !e.Enabled || e.Bounds.Contains(w)
}
