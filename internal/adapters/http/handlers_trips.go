package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/usecases"
	"github.com/samirrijal/motospirit/internal/pkg/maprender"
	"github.com/samirrijal/motospirit/internal/pkg/waypoints"
)

// PlanTripRequest is the body of POST /v1/trips/plan.
type PlanTripRequest struct {
	Origin      string           `json:"origin"`
	Preferences string           `json:"preferences"`
	Location    *domain.Waypoint `json:"location,omitempty"`
}

// PlanTripResponse carries the route and, when it was displayed, the map.
type PlanTripResponse struct {
	Route   *domain.Route `json:"route"`
	Applied bool          `json:"applied"`
	// Notice is set when the plan has text but nothing to draw.
	Notice string               `json:"notice,omitempty"`
	Map    *maprender.MapState `json:"map,omitempty"`
}

const noPathNotice = "The route description has no usable coordinates, so nothing is drawn on the map."

// maxSessionIDLen bounds the X-Session-ID header.
const (
	maxSessionIDLen   = 128
	errSessionTooLong = "session id is too long"
)

func sessionID(c *fiber.Ctx) (string, bool) {
	id := trimmed(c.Get(SessionHeader))
	if id == "" {
		return usecases.DefaultSession, true
	}
	return id, len(id) <= maxSessionIDLen
}

// PlanTripHandler plans a trip for the caller's session. It is not wrapped
// in a timeout; the generation call ends with the request context.
func PlanTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PlanTripRequest
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		body.Origin = trimmed(body.Origin)
		if body.Origin == "" {
			return errBadRequest(c, "origin is required")
		}
		if body.Location != nil && !waypoints.Valid(*body.Location) {
			return errBadRequest(c, "location is out of range")
		}

		sid, ok := sessionID(c)
		if !ok {
			return errBadRequest(c, errSessionTooLong)
		}
		res, err := deps.Sessions.Plan(c.UserContext(), usecases.PlanRequest{
			SessionID:   sid,
			Origin:      body.Origin,
			Preferences: trimmed(body.Preferences),
			Location:    body.Location,
		})
		if err != nil {
			return errFrom(c, err)
		}

		out := PlanTripResponse{Route: res.Route, Applied: res.Applied}
		if !res.Route.HasPath() {
			out.Notice = noPathNotice
		}
		if res.Applied {
			state := deps.Sessions.Map(sid)
			out.Map = &state
		}
		return c.JSON(out)
	}
}

// CurrentTripHandler returns the route displayed in the session.
func CurrentTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid, ok := sessionID(c)
		if !ok {
			return errBadRequest(c, errSessionTooLong)
		}
		route, ok := deps.Sessions.Current(sid)
		if !ok {
			return errNotFound(c, "no route planned yet")
		}
		return c.JSON(route)
	}
}

// TripMapHandler returns the drawn layers and viewport of the session.
func TripMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid, ok := sessionID(c)
		if !ok {
			return errBadRequest(c, errSessionTooLong)
		}
		return c.JSON(deps.Sessions.Map(sid))
	}
}

// TripMapVisibleHandler is called by the client when its map is shown again.
func TripMapVisibleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid, ok := sessionID(c)
		if !ok {
			return errBadRequest(c, errSessionTooLong)
		}
		return c.JSON(deps.Sessions.Visible(sid))
	}
}

// TripHistoryHandler returns recent routes, newest first.
func TripHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		maxLimit := deps.HistoryLimit
		if maxLimit <= 0 {
			maxLimit = 10
		}
		limit := c.QueryInt("limit", maxLimit)
		if limit <= 0 || limit > maxLimit {
			limit = maxLimit
		}
		hist, err := deps.Trips.History(c.UserContext(), limit)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(hist)
	}
}
