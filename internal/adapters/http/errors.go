package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, credential_invalid, ...
	Message   string `json:"message"` // shown to the rider as is
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

var generationStatus = map[domain.GenerationErrorKind]int{
	domain.GenerationCredentialMissing: fiber.StatusUnauthorized,
	domain.GenerationCredentialInvalid: fiber.StatusUnauthorized,
	domain.GenerationBilling:           fiber.StatusPaymentRequired,
	domain.GenerationQuota:             fiber.StatusTooManyRequests,
	domain.GenerationTransport:         fiber.StatusBadGateway,
}

// errFrom maps a use case error onto the HTTP error envelope.
func errFrom(c *fiber.Ctx, err error) error {
	if kind, ok := domain.GenerationKind(err); ok {
		status, known := generationStatus[kind]
		if !known {
			status = fiber.StatusBadGateway
		}
		return newError(c, status, string(kind), domain.UserMessage(err))
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		return errBadRequest(c, err.Error())
	}
	logging.FromContext(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return errInternal(c, "internal error")
}
