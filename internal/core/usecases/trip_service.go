package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/pkg/geospatial"
	"github.com/samirrijal/motospirit/internal/pkg/logging"
	"github.com/samirrijal/motospirit/internal/pkg/metrics"
	"github.com/samirrijal/motospirit/internal/pkg/telemetry"
	"github.com/samirrijal/motospirit/internal/pkg/waypoints"
)

const tripFallback = "The route could not be generated. Try a different start or preferences."

// Plan outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

// TripOptions configure the planning pipeline.
type TripOptions struct {
	Model            string
	Marker           string
	MinWaypoints     int
	Language         string
	Mode             string
	Envelope         waypoints.Envelope
	HistoryLimit     int
	HistoryWaypoints bool
}

// PlanRequest is one rider request.
type PlanRequest struct {
	SessionID   string
	Origin      string
	Preferences string
	Location    *domain.Waypoint
}

// TripService turns a planning request into a Route.
type TripService struct {
	generator
	history ports.RouteHistoryRepository
	events  ports.EventPublisher
	tz      ports.TimezoneService
	opts    TripOptions
	now     func() time.Time
}

// NewTripService creates a new TripService. history, events and tz may be nil.
func NewTripService(
	gen ports.GenerationService,
	creds ports.CredentialBroker,
	history ports.RouteHistoryRepository,
	events ports.EventPublisher,
	tz ports.TimezoneService,
	opts TripOptions,
) *TripService {
	if opts.Marker == "" {
		opts.Marker = waypoints.DefaultMarker
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	if opts.Mode == "" {
		opts.Mode = TripModeText
	}
	return &TripService{
		generator: generator{gen: gen, creds: creds},
		history:   history,
		events:    events,
		tz:        tz,
		opts:      opts,
		now:       time.Now,
	}
}

// Plan runs prompt, generation, extraction and route assembly. A generation
// failure aborts the request; a response without usable coordinates is a
// degraded success with an empty waypoint sequence.
func (s *TripService) Plan(ctx context.Context, req PlanRequest) (*domain.Route, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "trips.plan")
	defer span.End()
	span.SetAttributes(telemetry.AttrOrigin.String(req.Origin), telemetry.AttrSession.String(req.SessionID))

	log := logging.FromContext(ctx)

	var region *domain.Bounds
	if s.opts.Envelope.Enabled {
		region = &s.opts.Envelope.Bounds
	}
	prompt := BuildTripPrompt(req.Origin, req.Preferences, PromptOptions{
		Marker:       s.opts.Marker,
		MinWaypoints: s.opts.MinWaypoints,
		Language:     s.opts.Language,
		Mode:         s.opts.Mode,
		Location:     req.Location,
		Region:       region,
	})

	genReq := ports.GenerationRequest{
		Model:         s.opts.Model,
		Prompt:        prompt,
		WebSearch:     true,
		MapsGrounding: true,
		Location:      req.Location,
	}
	if s.opts.Mode == TripModeJSON {
		genReq.Schema = TripSchema()
		genReq.SchemaName = "trip_plan"
	}

	resp, err := s.generate(ctx, "trip", genReq)
	if err != nil {
		metrics.TripPlans.WithLabelValues(OutcomeError).Inc()
		span.SetStatus(codes.Error, "generation failed")
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	route := s.assemble(ctx, req, resp)

	outcome := OutcomeOK
	if !route.HasPath() {
		outcome = OutcomeDegraded
		log.Warn("trip plan has no usable waypoints", "origin", req.Origin)
	}
	metrics.TripPlans.WithLabelValues(outcome).Inc()
	metrics.WaypointsExtracted.Observe(float64(len(route.Waypoints)))
	span.SetAttributes(
		telemetry.AttrWaypoints.Int(len(route.Waypoints)),
		telemetry.AttrOutcome.String(outcome),
	)

	if s.history != nil {
		summary := route.Summary(s.opts.HistoryWaypoints)
		if err := s.history.Add(ctx, &summary, s.opts.HistoryLimit); err != nil {
			log.Warn("failed to store route history", "error", err)
		}
	}

	if s.events != nil {
		if err := s.events.PublishRoutePlanned(ctx, req.SessionID, route); err != nil {
			log.Warn("failed to publish route", "error", err)
		}
	}

	return route, nil
}

func (s *TripService) assemble(ctx context.Context, req PlanRequest, resp *ports.GenerationResponse) *domain.Route {
	opts := waypoints.Options{Marker: s.opts.Marker, Envelope: s.opts.Envelope}

	var (
		narrative   string
		destination string
		pts         []domain.Waypoint
		rejected    int
	)

	decoded := false
	if s.opts.Mode == TripModeJSON {
		if tj, ok := decodeTripJSON(resp.Text); ok {
			narrative = strings.TrimSpace(tj.Itinerary)
			destination = strings.TrimSpace(tj.Destination)
			pts, rejected = waypoints.Filter(tj.Waypoints, s.opts.Envelope)
			if len(pts) == 0 {
				// Pairs written into the itinerary prose still count.
				var inText int
				pts, inText = waypoints.Scan(tj.Itinerary, s.opts.Envelope)
				rejected += inText
			}
			decoded = true
		}
	}
	if !decoded {
		res := waypoints.Extract(resp.Text, resp.Citations, opts)
		narrative = res.Narrative
		destination = destinationOf(res.Narrative)
		pts = res.Waypoints
		rejected = res.Rejected
	}
	if narrative == "" {
		narrative = tripFallback
	}
	if rejected > 0 {
		metrics.WaypointsRejected.Add(float64(rejected))
	}

	route := &domain.Route{
		ID:          uuid.NewString(),
		Origin:      req.Origin,
		Preferences: req.Preferences,
		Text:        narrative,
		Destination: destination,
		Citations:   resp.Citations,
		Waypoints:   pts,
		CreatedAt:   s.now().UTC(),
	}
	if route.Citations == nil {
		route.Citations = []domain.Citation{}
	}
	if route.HasPath() {
		route.LengthKm = geospatial.PathLengthKm(pts)
		route.Polyline = geospatial.EncodePolyline(pts)
		if s.tz != nil {
			route.StartTimezone = s.timezone(ctx, pts[0])
			route.EndTimezone = s.timezone(ctx, pts[len(pts)-1])
		}
	}
	return route
}

// timezone resolves the zone of a route endpoint; a failed lookup leaves it empty.
func (s *TripService) timezone(ctx context.Context, w domain.Waypoint) string {
	name, err := s.tz.GetTimezone(w.Lat, w.Lon)
	if err != nil {
		logging.FromContext(ctx).Debug("timezone lookup failed", "lat", w.Lat, "lon", w.Lon, "error", err)
		return ""
	}
	return name
}

// History returns the most recent routes, newest first.
func (s *TripService) History(ctx context.Context, limit int) ([]domain.RouteSummary, error) {
	if s.history == nil {
		return []domain.RouteSummary{}, nil
	}
	if limit <= 0 || limit > s.opts.HistoryLimit {
		limit = s.opts.HistoryLimit
	}
	return s.history.List(ctx, limit)
}
