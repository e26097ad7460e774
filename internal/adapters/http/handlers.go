package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// GetProfileHandler returns the rider profile, or defaults when none is stored.
func GetProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := deps.Profiles.Get(c.UserContext())
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(p)
	}
}

// PutProfileHandler replaces the rider profile.
func PutProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p domain.Profile
		if err := c.BodyParser(&p); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		saved, err := deps.Profiles.Save(c.UserContext(), &p)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(saved)
	}
}

// ListBikesHandler returns every bike in the garage.
func ListBikesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bikes, err := deps.Garage.ListBikes(c.UserContext())
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(bikes)
	}
}

// CreateBikeHandler adds a bike.
func CreateBikeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var b domain.Motorcycle
		if err := c.BodyParser(&b); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		created, err := deps.Garage.CreateBike(c.UserContext(), &b)
		if err != nil {
			return errFrom(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// GetBikeHandler returns a single bike by ID.
func GetBikeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := deps.Garage.GetBike(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(b)
	}
}

// UpdateBikeHandler replaces a bike's details.
func UpdateBikeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var b domain.Motorcycle
		if err := c.BodyParser(&b); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		b.ID = c.Params("id")
		updated, err := deps.Garage.UpdateBike(c.UserContext(), &b)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(updated)
	}
}

// DeleteBikeHandler removes a bike together with its records.
func DeleteBikeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Garage.DeleteBike(c.UserContext(), c.Params("id")); err != nil {
			return errFrom(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListMaintenanceHandler returns the maintenance records of a bike.
func ListMaintenanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recs, err := deps.Garage.ListMaintenance(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(recs)
	}
}

// AddMaintenanceHandler records a service or expense.
func AddMaintenanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rec domain.MaintenanceRecord
		if err := c.BodyParser(&rec); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		rec.BikeID = c.Params("id")
		saved, err := deps.Garage.AddMaintenance(c.UserContext(), &rec)
		if err != nil {
			return errFrom(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	}
}

// DeleteMaintenanceHandler removes a maintenance record.
func DeleteMaintenanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Garage.DeleteMaintenance(c.UserContext(), c.Params("id")); err != nil {
			return errFrom(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AnalyzeBikeHandler asks for a maintenance recommendation. With ?async=true
// the request is queued for the worker and 202 is returned.
func AnalyzeBikeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bikeID := c.Params("id")
		if c.QueryBool("async", false) {
			if deps.NATS == nil {
				return errUnavailable(c, "asynchronous analysis is not available")
			}
			req, err := deps.Analysis.Request(c.UserContext(), bikeID)
			if err != nil {
				return errFrom(c, err)
			}
			return c.Status(fiber.StatusAccepted).JSON(req)
		}

		a, err := deps.Analysis.Analyze(c.UserContext(), bikeID)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(a)
	}
}

// LatestAnalysisHandler returns the most recent analysis of a bike.
func LatestAnalysisHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := deps.Analysis.Latest(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(a)
	}
}

func trimmed(s string) string { return strings.TrimSpace(s) }
