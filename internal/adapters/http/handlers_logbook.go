package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/usecases"
)

// ListFuelHandler returns the refuellings of a bike, highest mileage first.
func ListFuelHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recs, err := deps.Logbook.ListFuel(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(recs)
	}
}

// AddFuelHandler records a refuelling.
func AddFuelHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rec domain.FuelRecord
		if err := c.BodyParser(&rec); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		rec.BikeID = c.Params("id")
		saved, err := deps.Logbook.AddFuel(c.UserContext(), &rec)
		if err != nil {
			return errFrom(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	}
}

// DeleteFuelHandler removes a refuelling.
func DeleteFuelHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Logbook.DeleteFuel(c.UserContext(), c.Params("id")); err != nil {
			return errFrom(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// LogbookHandler returns the merged fuel and expense timeline, paginated.
func LogbookHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := deps.Logbook.Timeline(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFrom(c, err)
		}
		page, pg := paginate(c, entries, 50, 200)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// ConsumptionResponse is the body of GET /v1/bikes/:id/consumption.
type ConsumptionResponse struct {
	usecases.Consumption
	Display string `json:"display"`
}

// ConsumptionHandler returns the average consumption of the last two refuellings.
func ConsumptionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cons, err := deps.Logbook.Consumption(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(ConsumptionResponse{Consumption: cons, Display: cons.String()})
	}
}

// ConfirmRecordHandler saves a pending record extracted from a receipt.
func ConfirmRecordHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p domain.PendingRecord
		if err := c.BodyParser(&p); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		entry, err := deps.Logbook.Confirm(c.UserContext(), c.Params("id"), &p)
		if err != nil {
			return errFrom(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// ExtractReceiptHandler turns a receipt photo (multipart field "image") or a
// spoken description (JSON {"text": ...}) into a pending record.
func ExtractReceiptHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.ReceiptInput

		if fh, err := c.FormFile("image"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return errBadRequest(c, "unreadable image")
			}
			defer f.Close()
			if in.Image, err = io.ReadAll(f); err != nil {
				return errBadRequest(c, "unreadable image")
			}
			in.Text = c.FormValue("text")
		} else {
			var body struct {
				Text string `json:"text"`
			}
			if err := c.BodyParser(&body); err != nil {
				return errBadRequest(c, "expected a multipart image or a JSON text")
			}
			in.Text = body.Text
		}

		pending, err := deps.Receipts.Extract(c.UserContext(), in)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(pending)
	}
}
