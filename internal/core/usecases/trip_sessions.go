package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/pkg/logging"
	"github.com/samirrijal/motospirit/internal/pkg/maprender"
)

// DefaultSession is used when the client sends no session id.
const DefaultSession = "default"

// SessionIdleTTL is how long a session survives without a request.
const SessionIdleTTL = 2 * time.Hour

// TripPlanner produces routes.
type TripPlanner interface {
	Plan(ctx context.Context, req PlanRequest) (*domain.Route, error)
}

type tripSession struct {
	mu       sync.Mutex
	issued   uint64
	applied  uint64
	route    *domain.Route
	surface  *maprender.GeoJSONSurface
	renderer *maprender.Renderer
}

// TripSessions holds the display state of each client session: the current
// route and the map it is drawn on. Only planning creates a session; idle
// sessions expire after the configured TTL.
type TripSessions struct {
	planner TripPlanner
	render  maprender.Options
	ttl     time.Duration

	mu       sync.Mutex // serialises session creation
	sessions *cache.Cache
}

// NewTripSessions creates a new TripSessions with SessionIdleTTL.
func NewTripSessions(planner TripPlanner, render maprender.Options) *TripSessions {
	return NewTripSessionsWithTTL(planner, render, SessionIdleTTL)
}

// NewTripSessionsWithTTL creates a new TripSessions whose sessions expire
// after ttl without a request.
func NewTripSessionsWithTTL(planner TripPlanner, render maprender.Options, ttl time.Duration) *TripSessions {
	return &TripSessions{
		planner:  planner,
		render:   render,
		ttl:      ttl,
		sessions: cache.New(ttl, ttl/2),
	}
}

func sessionKey(id string) string {
	if id == "" {
		return DefaultSession
	}
	return id
}

// lookup returns an existing session and extends its lifetime.
func (t *TripSessions) lookup(id string) (*tripSession, bool) {
	id = sessionKey(id)
	v, ok := t.sessions.Get(id)
	if !ok {
		return nil, false
	}
	t.sessions.Set(id, v, t.ttl)
	return v.(*tripSession), true
}

// session returns the session, creating it when missing.
func (t *TripSessions) session(id string) *tripSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.lookup(id); ok {
		return s
	}
	surface := maprender.NewGeoJSONSurface()
	s := &tripSession{surface: surface, renderer: maprender.NewRenderer(surface, t.render)}
	t.sessions.Set(sessionKey(id), s, t.ttl)
	return s
}

// Len reports the number of live sessions.
func (t *TripSessions) Len() int { return t.sessions.ItemCount() }

// PlanResult is the outcome of a planning request within a session.
type PlanResult struct {
	Route *domain.Route
	// Applied is false when a later request of the same session was applied
	// first; the route is then returned but not displayed.
	Applied bool
}

// Plan issues a planning request for the session. Requests are numbered in
// issue order and a response is displayed only if no later request has been
// displayed already. A failed request leaves the current route untouched.
func (t *TripSessions) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	if req.SessionID == "" {
		req.SessionID = DefaultSession
	}
	s := t.session(req.SessionID)

	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	route, err := t.planner.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		logging.FromContext(ctx).Info("discarding stale trip plan",
			"session", req.SessionID, "seq", seq, "applied", s.applied)
		return &PlanResult{Route: route}, nil
	}
	s.applied = seq
	s.route = route
	s.renderer.Render(route)
	return &PlanResult{Route: route, Applied: true}, nil
}

// Current returns the route displayed in the session.
func (t *TripSessions) Current(sessionID string) (*domain.Route, bool) {
	s, ok := t.lookup(sessionID)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route, s.route != nil
}

// Map returns the drawn layers and viewport of the session. An unknown
// session has an empty map.
func (t *TripSessions) Map(sessionID string) maprender.MapState {
	s, ok := t.lookup(sessionID)
	if !ok {
		return maprender.NewGeoJSONSurface().State()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.State()
}

// Visible tells the session that its map became visible again; the layout
// is recomputed and the viewport refitted to the current route.
func (t *TripSessions) Visible(sessionID string) maprender.MapState {
	s, ok := t.lookup(sessionID)
	if !ok {
		return maprender.NewGeoJSONSurface().State()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer.OnVisible()
	return s.surface.State()
}
