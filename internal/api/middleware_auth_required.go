package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	userID, err := handler.tokens.Verify(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals(contextUserIDKey, userID)
	return c.Next()
}

func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(contextUserIDKey).(string)
	return userID, ok && userID != ""
}
