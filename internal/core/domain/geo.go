package domain

// Waypoint is a single WGS 84 coordinate pair of a planned route.
type Waypoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether w lies inside b (edges inclusive).
func (b Bounds) Contains(w Waypoint) bool {
	return w.Lat >= b.MinLat && w.Lat <= b.MaxLat &&
		w.Lon >= b.MinLon && w.Lon <= b.MaxLon
}

// BoundsOf returns the smallest box containing every waypoint.
// ok is false for an empty sequence.
func BoundsOf(pts []Waypoint) (b Bounds, ok bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}
	b = Bounds{MinLat: pts[0].Lat, MaxLat: pts[0].Lat, MinLon: pts[0].Lon, MaxLon: pts[0].Lon}
	for _, p := range pts[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}
	return b, true
}
