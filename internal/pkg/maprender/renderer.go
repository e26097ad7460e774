// Package maprender draws a planned route onto a map surface.
package maprender

import (
	"strconv"
	"sync"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// PathStyle describes one stroke along the route.
type PathStyle struct {
	Color   string  `json:"color"`
	Weight  float64 `json:"weight"`
	Opacity float64 `json:"opacity"`
}

// MarkerKind distinguishes route markers.
type MarkerKind string

const (
	MarkerStart        MarkerKind = "start"
	MarkerEnd          MarkerKind = "end"
	MarkerIntermediate MarkerKind = "waypoint"
)

// Marker is a point layer with an optional persistent label.
type Marker struct {
	Kind  MarkerKind `json:"kind"`
	Label string     `json:"label,omitempty"`
	Index int        `json:"index"`
}

// Surface is the map widget the renderer draws on.
type Surface interface {
	AddPath(id string, pts []domain.Waypoint, style PathStyle)
	AddMarker(id string, at domain.Waypoint, m Marker)
	Remove(id string)
	FitBounds(b domain.Bounds, paddingPx int)
	// Invalidate recomputes the widget layout, e.g. after it was hidden.
	Invalidate()
}

// Options are presentation tuning constants.
type Options struct {
	Glow     PathStyle
	Crisp    PathStyle
	Stride   int // every Stride-th point gets an intermediate marker
	MinLen   int // sequences up to MinLen points get no intermediate markers
	Padding  int // viewport padding in pixels
	StartTag string
}

// DefaultOptions mirrors the original map styling.
func DefaultOptions() Options {
	return Options{
		Glow:     PathStyle{Color: "#f97316", Weight: 12, Opacity: 0.25},
		Crisp:    PathStyle{Color: "#f97316", Weight: 4, Opacity: 1},
		Stride:   10,
		MinLen:   12,
		Padding:  40,
		StartTag: "START",
	}
}

// Layer ids.
const (
	GlowLayerID  = "route-glow"
	CrispLayerID = "route-line"
)

// Renderer keeps track of the layers it drew so that a new route always
// replaces the previous one.
type Renderer struct {
	mu      sync.Mutex
	surface Surface
	opts    Options
	layers  []string
	path    []domain.Waypoint
}

// NewRenderer creates a renderer drawing on surface.
func NewRenderer(surface Surface, opts Options) *Renderer {
	if opts.Stride < 1 {
		opts.Stride = 1
	}
	if opts.StartTag == "" {
		opts.StartTag = "START"
	}
	return &Renderer{surface: surface, opts: opts}
}

// Render clears previously drawn layers and draws route. An empty waypoint
// sequence draws nothing and leaves the viewport as it was.
func (r *Renderer) Render(route *domain.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clear()
	if !route.HasPath() {
		return
	}

	pts := route.Waypoints
	r.path = pts

	r.add(GlowLayerID, func(id string) { r.surface.AddPath(id, pts, r.opts.Glow) })
	r.add(CrispLayerID, func(id string) { r.surface.AddPath(id, pts, r.opts.Crisp) })

	last := len(pts) - 1
	r.add("marker-start", func(id string) {
		r.surface.AddMarker(id, pts[0], Marker{Kind: MarkerStart, Label: r.opts.StartTag, Index: 0})
	})
	for _, i := range IntermediateIndices(len(pts), r.opts.Stride, r.opts.MinLen) {
		i := i
		r.add("marker-"+strconv.Itoa(i), func(id string) {
			r.surface.AddMarker(id, pts[i], Marker{Kind: MarkerIntermediate, Index: i})
		})
	}
	if last > 0 {
		label := route.Destination
		if label == "" {
			label = "FINISH"
		}
		r.add("marker-end", func(id string) {
			r.surface.AddMarker(id, pts[last], Marker{Kind: MarkerEnd, Label: label, Index: last})
		})
	}

	r.fit()
}

// OnVisible recomputes the surface layout and refits the viewport to the
// current path.
func (r *Renderer) OnVisible() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.surface.Invalidate()
	r.fit()
}

// Clear removes every drawn layer.
func (r *Renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear()
}

func (r *Renderer) clear() {
	for _, id := range r.layers {
		r.surface.Remove(id)
	}
	r.layers = r.layers[:0]
	r.path = nil
}

func (r *Renderer) add(id string, draw func(id string)) {
	draw(id)
	r.layers = append(r.layers, id)
}

func (r *Renderer) fit() {
	if b, ok := domain.BoundsOf(r.path); ok {
		r.surface.FitBounds(b, r.opts.Padding)
	}
}

// IntermediateIndices returns the indices that get a sparse marker: every
// stride-th point, excluding the first and last, only for sequences longer
// than minLen.
func IntermediateIndices(n, stride, minLen int) []int {
	if n <= minLen || stride < 1 {
		return nil
	}
	var idx []int
	for i := stride; i < n-1; i += stride {
		idx = append(idx, i)
	}
	return idx
}
