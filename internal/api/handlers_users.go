package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nutriapp/internal/services"
)

func (handler *Handler) CreateUser(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := services.ProfileInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid profile payload")
	}

	user, err := handler.profiles.SaveProfile(c.UserContext(), userID, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (handler *Handler) EditProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	patch := services.ProfilePatch{}
	if err := c.BodyParser(&patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid profile payload")
	}

	user, err := handler.profiles.UpdateProfile(c.UserContext(), userID, patch)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

func (handler *Handler) GetCurrentUser(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := handler.profiles.GetProfile(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}
