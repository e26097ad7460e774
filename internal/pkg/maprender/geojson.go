package maprender

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// Viewport is the area the client should show.
type Viewport struct {
	Bounds    *domain.Bounds `json:"bounds,omitempty"`
	PaddingPx int            `json:"padding_px"`
	// Revision increases every time the surface layout is recomputed.
	Revision int `json:"revision"`
}

// MapState is a snapshot of a GeoJSONSurface.
type MapState struct {
	Layers   *geojson.FeatureCollection `json:"layers"`
	Viewport Viewport                   `json:"viewport"`
}

// GeoJSONSurface keeps drawn layers as GeoJSON features so a client can
// replay them onto any web map.
type GeoJSONSurface struct {
	mu       sync.RWMutex
	order    []string
	features map[string]*geojson.Feature
	viewport Viewport
}

// NewGeoJSONSurface returns an empty surface.
func NewGeoJSONSurface() *GeoJSONSurface {
	return &GeoJSONSurface{features: make(map[string]*geojson.Feature)}
}

func toPoint(w domain.Waypoint) orb.Point { return orb.Point{w.Lon, w.Lat} }

func (s *GeoJSONSurface) put(id string, f *geojson.Feature) {
	f.ID = id
	if _, ok := s.features[id]; !ok {
		s.order = append(s.order, id)
	}
	s.features[id] = f
}

func (s *GeoJSONSurface) AddPath(id string, pts []domain.Waypoint, style PathStyle) {
	ls := make(orb.LineString, 0, len(pts))
	for _, p := range pts {
		ls = append(ls, toPoint(p))
	}
	f := geojson.NewFeature(ls)
	f.Properties["layer"] = "path"
	f.Properties["stroke"] = style.Color
	f.Properties["stroke-width"] = style.Weight
	f.Properties["stroke-opacity"] = style.Opacity

	s.mu.Lock()
	s.put(id, f)
	s.mu.Unlock()
}

func (s *GeoJSONSurface) AddMarker(id string, at domain.Waypoint, m Marker) {
	f := geojson.NewFeature(toPoint(at))
	f.Properties["layer"] = "marker"
	f.Properties["kind"] = string(m.Kind)
	f.Properties["index"] = m.Index
	if m.Label != "" {
		f.Properties["label"] = m.Label
	}

	s.mu.Lock()
	s.put(id, f)
	s.mu.Unlock()
}

func (s *GeoJSONSurface) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.features[id]; !ok {
		return
	}
	delete(s.features, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *GeoJSONSurface) FitBounds(b domain.Bounds, paddingPx int) {
	s.mu.Lock()
	s.viewport.Bounds = &b
	s.viewport.PaddingPx = paddingPx
	s.mu.Unlock()
}

func (s *GeoJSONSurface) Invalidate() {
	s.mu.Lock()
	s.viewport.Revision++
	s.mu.Unlock()
}

// FeatureCollection returns the drawn layers in drawing order.
func (s *GeoJSONSurface) FeatureCollection() *geojson.FeatureCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fc := geojson.NewFeatureCollection()
	for _, id := range s.order {
		fc.Append(s.features[id])
	}
	return fc
}

// Viewport returns the last fitted viewport.
func (s *GeoJSONSurface) Viewport() Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// State returns the layers together with the viewport.
func (s *GeoJSONSurface) State() MapState {
	return MapState{Layers: s.FeatureCollection(), Viewport: s.Viewport()}
}

// CountLayers returns how many features carry the given layer kind
// ("path" or "marker").
func (s *GeoJSONSurface) CountLayers(kind string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, f := range s.features {
		if f.Properties["layer"] == kind {
			n++
		}
	}
	return n
}

// Bound returns the orb bound of everything drawn, or false when empty.
func (s *GeoJSONSurface) Bound() (orb.Bound, bool) {
	fc := s.FeatureCollection()
	if len(fc.Features) == 0 {
		return orb.Bound{}, false
	}
	b := fc.Features[0].Geometry.Bound()
	for _, f := range fc.Features[1:] {
		b = b.Union(f.Geometry.Bound())
	}
	return b, true
}
