package geospatial

import (
	"github.com/twpayne/go-polyline"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// EncodePolyline encodes waypoints in the Google encoded polyline format
// (precision 1e5, lat/lon order).
func EncodePolyline(pts []domain.Waypoint) string {
	if len(pts) == 0 {
		return ""
	}
	coords := make([][]float64, len(pts))
	for i, p := range pts {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline is the inverse of EncodePolyline.
func DecodePolyline(s string) ([]domain.Waypoint, error) {
	if s == "" {
		return nil, nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	pts := make([]domain.Waypoint, len(coords))
	for i, c := range coords {
		pts[i] = domain.Waypoint{Lat: c[0], Lon: c[1]}
	}
	return pts, nil
}
