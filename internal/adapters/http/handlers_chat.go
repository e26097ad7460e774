package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// ChatHistoryHandler returns the conversation, oldest first.
func ChatHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		msgs, err := deps.Chat.History(c.UserContext())
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(msgs)
	}
}

// SendChatHandler sends a message to the assistant and returns its reply.
func SendChatHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body domain.ChatMessage
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if trimmed(body.Text) == "" {
			return errBadRequest(c, "text is required")
		}
		reply, err := deps.Chat.Send(c.UserContext(), body.Text)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(reply)
	}
}

// ClearChatHandler resets the conversation.
func ClearChatHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		msgs, err := deps.Chat.Clear(c.UserContext())
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(msgs)
	}
}
